package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/buildservice/builtin"
	"github.com/dekorate/cli/internal/config"
	oerrors "github.com/dekorate/cli/internal/errors"
	"github.com/dekorate/cli/internal/generator"
	k8sgen "github.com/dekorate/cli/internal/generator/kubernetes"
	"github.com/dekorate/cli/internal/generator/openshift"
	"github.com/dekorate/cli/internal/kubernetes"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
	"github.com/dekorate/cli/internal/session"
)

// generateOptions holds the generate command flags.
type generateOptions struct {
	markerFile string
	properties []string
	format     string
	split      bool
	outDir     string
	skipHooks  bool
	version    string
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	c := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate platform manifests for a project",
		Long: `Generate Kubernetes and OpenShift manifests for the project at path
(default: the current directory).

Configuration is merged per platform from the marker file (--marker-file)
and from application properties. Properties are read from
application.properties, application.yaml and application.yml in the
project root and in resources/, then from every --properties file; later
files win. Property values always override marker values.

Manifests are written to <out-dir>/<group>.yml (or .json). With
autoBuildEnabled or autoDeployEnabled set, the first applicable build
service builds the image afterwards, and autoDeployEnabled applies the
generated resources to the cluster.`,
		Example: `  # Generate manifests for the current project
  dekorate generate

  # Use pre-scanned markers and an extra properties file
  dekorate generate ./shop --marker-file markers.yaml --properties deploy.properties

  # One file per resource, no build or deploy
  dekorate generate --split --skip-hooks`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return exitError(runGenerate(c.Context(), root, opts))
		},
	}

	c.Flags().StringVar(&opts.markerFile, "marker-file", "", "YAML or JSON file with pre-scanned openshift and kubernetes markers")
	c.Flags().StringSliceVar(&opts.properties, "properties", nil, "Additional .properties or .yaml property files, applied in order")
	c.Flags().StringVarP(&opts.format, "output", "o", "yaml", "Manifest format: "+strings.Join(output.ValidManifestFormats(), ", "))
	c.Flags().BoolVar(&opts.split, "split", false, "Write one file per resource under <out-dir>/<group>/")
	c.Flags().StringVar(&opts.outDir, "out-dir", "", "Manifest directory, relative to the project root (env: DEKORATE_OUTPUT_DIR, default: "+config.DefaultOutputDir+")")
	c.Flags().BoolVar(&opts.skipHooks, "skip-hooks", false, "Do not run image builds or deployments requested by the configuration")
	c.Flags().StringVar(&opts.version, "version", "", "Application version, overrides the detected project version")

	return c
}

// runGenerate runs one generation session for the project at root.
func runGenerate(ctx context.Context, root string, opts *generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, ok := output.ParseFormat(opts.format)
	if !ok || format == output.FormatTable {
		return oerrors.NewValidationError(
			fmt.Sprintf("unsupported output format %q", opts.format), "", "output",
			"Use one of: "+strings.Join(output.ValidManifestFormats(), ", "))
	}

	p, err := project.Load(root, project.Options{Version: opts.version})
	if err != nil {
		return err
	}
	log := output.GeneratorLogger(p.BuildInfo.Name)
	log.Debug("loaded project", "root", p.Root, "group", p.BuildInfo.Group, "version", p.BuildInfo.Version)

	props, err := loadProjectProperties(p, opts.properties)
	if err != nil {
		return err
	}

	var markers *Markers
	if opts.markerFile != "" {
		if markers, err = LoadMarkers(opts.markerFile); err != nil {
			return err
		}
	}

	cluster := clusterOptions()
	discovery := discoveryFor(cluster)
	s := session.New()
	genOpts := generator.Options{
		Registry:  builtin.Registry(cluster),
		Discovery: discovery,
		Cluster:   cluster,
	}
	if err := registerFragments(s, p, genOpts, markers, props); err != nil {
		return err
	}

	if err := s.Close(); err != nil {
		return err
	}

	groups := s.Resources()
	if groups.Len() == 0 {
		output.Warn("no resources generated", "hint", "pass --marker-file or add dekorate.openshift / dekorate.kubernetes properties")
		return nil
	}

	dir := opts.outDir
	if dir == "" {
		dir = outputDir()
	}
	if err := writeManifests(groups, p.Resolve(dir), format, opts.split); err != nil {
		return err
	}

	hooks := s.Hooks()
	if len(hooks) == 0 {
		return nil
	}
	if opts.skipHooks {
		for _, h := range hooks {
			output.Info("skipping hook", "hook", h.Name())
		}
		return nil
	}

	output.Debug("running hooks", "count", len(hooks))
	return discovery.Scope(func() error {
		return s.RunHooks(ctx)
	})
}

// registerFragments feeds markers and properties to both platform
// generators. A generator that receives nothing is never registered.
func registerFragments(s *session.Session, p *project.Project, opts generator.Options, markers *Markers, props map[string]any) error {
	osGen := openshift.New(s, p, opts)
	k8sGen := k8sgen.New(s, p, opts)

	if markers != nil {
		for _, app := range markers.OpenShift {
			if err := osGen.AddMarker(app); err != nil {
				return fmt.Errorf("openshift marker: %w", err)
			}
		}
		for _, app := range markers.Kubernetes {
			if err := k8sGen.AddMarker(app); err != nil {
				return fmt.Errorf("kubernetes marker: %w", err)
			}
		}
	}

	if len(props) == 0 {
		return nil
	}
	if err := osGen.AddProperties(props); err != nil {
		return fmt.Errorf("openshift properties: %w", err)
	}
	if err := k8sGen.AddProperties(props); err != nil {
		return fmt.Errorf("kubernetes properties: %w", err)
	}
	return nil
}

// loadProjectProperties merges the project's own property files with the
// extra files; later files win.
func loadProjectProperties(p *project.Project, extra []string) (map[string]any, error) {
	files := config.ProjectPropertyFiles(p.Root)
	for _, f := range extra {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving properties file %s: %w", f, err)
		}
		files = append(files, abs)
	}
	for _, f := range files {
		output.Debug("reading properties", "file", f)
	}
	return config.LoadProperties(files...)
}

// discoveryFor returns the environment applied while build services are
// selected and while hooks run.
func discoveryFor(cluster kubernetes.ClientOptions) buildservice.Discovery {
	env := make(map[string]string)
	if host := dockerHost(); host != "" {
		env["DOCKER_HOST"] = host
	}
	if cluster.Kubeconfig != "" {
		env["KUBECONFIG"] = cluster.Kubeconfig
	}
	return buildservice.Discovery{Env: env}
}

func writeManifests(groups *resource.Groups, dir string, format output.Format, split bool) error {
	if split {
		if err := output.WriteSplitManifests(groups, output.SplitOptions{OutDir: dir, Format: format}); err != nil {
			return err
		}
	} else {
		paths, err := output.WriteGroups(groups, dir, format)
		if err != nil {
			return err
		}
		for _, path := range paths {
			output.Println(output.FormatCheckmark("wrote " + path))
		}
	}

	for _, name := range groups.Names() {
		for _, res := range groups.Get(name) {
			output.Println(output.FormatResourceLine(res.GetKind(), res.GetNamespace(), res.GetName(), output.StatusGenerated))
		}
	}
	return nil
}
