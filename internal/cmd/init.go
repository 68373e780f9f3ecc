package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dekorate/cli/internal/generator/openshift"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/templates"
)

type initOptions struct {
	template string
	name     string
	group    string
	version  string
	port     int
	force    bool
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	c := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter dekorate configuration into a project",
		Long: `Write application.yaml (and, for the docker template, a Dockerfile) into
the project at path (default: the current directory). Name and group default
to the values detected from go.mod.

Templates:
` + templateList(),
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return exitError(runInit(root, opts))
		},
	}

	c.Flags().StringVarP(&opts.template, "template", "t", string(templates.Kubernetes), "Scaffold: "+strings.Join(templates.ValidTemplates(), ", "))
	c.Flags().StringVar(&opts.name, "name", "", "Application name (default: detected)")
	c.Flags().StringVar(&opts.group, "group", "", "Image group (default: detected)")
	c.Flags().StringVar(&opts.version, "version", "", "Application version (default: "+project.DefaultVersion+")")
	c.Flags().IntVar(&opts.port, "port", templates.DefaultPort, "Container port")
	c.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing files")

	return c
}

func runInit(root string, opts *initOptions) error {
	p, err := project.Load(root, project.Options{Name: opts.name, Group: opts.group, Version: opts.version})
	if err != nil {
		return err
	}

	res, err := templates.Generate(templates.GenerateOptions{
		TemplateName: templates.TemplateName(opts.template),
		TargetDir:    p.Root,
		Force:        opts.force,
		Data: templates.TemplateData{
			Name:         p.BuildInfo.Name,
			Group:        p.BuildInfo.Group,
			Version:      p.BuildInfo.Version,
			Port:         opts.port,
			BuilderImage: openshift.DefaultBuilderImage,
		},
	})
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		output.Println(output.FormatCheckmark(fmt.Sprintf("created %s", f)))
	}
	output.Println(output.StyleDim.Render("next: dekorate generate " + root))
	return nil
}

func templateList() string {
	var b strings.Builder
	for _, t := range templates.List() {
		fmt.Fprintf(&b, "  %-11s %s\n", t.Name, t.Description)
	}
	return b.String()
}
