package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/buildservice/builtin"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
)

// NewServicesCmd creates the services command.
func NewServicesCmd() *cobra.Command {
	var dockerFile string

	c := &cobra.Command{
		Use:   "services [path]",
		Short: "Show which build services apply to a project",
		Long: `Check every registered build service against the project at path
(default: the current directory) and print the result in selection order.
The first applicable service is the one an automatic build would use.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return exitError(runServices(root, dockerFile))
		},
	}

	c.Flags().StringVar(&dockerFile, "docker-file", "", "Dockerfile path relative to the project root (default: Dockerfile)")
	return c
}

func runServices(root, dockerFile string) error {
	p, err := project.Load(root, project.Options{})
	if err != nil {
		return err
	}

	cluster := clusterOptions()
	registry := builtin.Registry(cluster)
	results, err := registry.Check(discoveryFor(cluster), p, buildservice.ImageConfiguration{
		Name:       p.BuildInfo.Name,
		Group:      p.BuildInfo.Group,
		Version:    p.BuildInfo.Version,
		DockerFile: dockerFile,
	})
	if err != nil {
		return err
	}

	output.Println(servicesTable(results))
	return nil
}

// servicesTable renders check results; the first applicable result is
// marked selected.
func servicesTable(results []buildservice.Result) string {
	tbl := output.NewTable("ORDER", "SERVICE", "STATUS", "MESSAGE")
	selected := false
	for _, r := range results {
		status := output.StatusNotApplicable
		if r.Applicability.Applicable {
			status = output.StatusApplicable
			if !selected {
				status = output.StatusSelected
				selected = true
			}
		}
		tbl.Row(strconv.Itoa(r.Factory.Order()), r.Factory.Name(), output.StatusStyle(status).Render(status), r.Applicability.Message)
	}
	if !selected {
		tbl.Footnote(fmt.Sprintf("no build service applies (%d checked)", len(results)))
	}
	return tbl.String()
}
