package generator

import (
	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/kubernetes"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/session"
)

// Options carries what generators need beyond the session and project.
type Options struct {
	// Registry is the build service registry consulted on close.
	Registry *buildservice.Registry

	// Discovery is applied around the build service lookup.
	Discovery buildservice.Discovery

	// Cluster configures the client used by the apply hook.
	Cluster kubernetes.ClientOptions
}

// ImageBuild runs the on-close image build orchestration for one platform
// group, given its resolved configuration:
//
//   - nothing happens unless autoBuild or autoDeploy is enabled
//   - the first applicable build service is selected and created with the
//     group's generated resources
//   - an image build hook, and with autoDeploy an apply hook, are
//     registered on the session to run after manifests are written
func ImageBuild(s *session.Session, p *project.Project, group string, cfg Config, opts Options) error {
	log := output.GeneratorLogger(group)

	name := cfg.Name
	if name == "" {
		name = p.BuildInfo.Name
	}

	if !cfg.AutoBuildEnabled && !cfg.AutoDeployEnabled {
		log.Debug("image build not requested", "name", name)
		return nil
	}

	image := buildservice.ImageConfiguration{
		Name:            name,
		Group:           cfg.Group,
		Version:         cfg.Version,
		Registry:        cfg.Registry,
		DockerFile:      cfg.DockerFile,
		AutoPushEnabled: cfg.AutoPushEnabled,
	}

	generated := s.Resources().Get(group)

	factory, err := opts.Registry.Find(opts.Discovery, p, image)
	if err != nil {
		return err
	}
	log.Debug("selected build service", "factory", factory.Name(), "image", image.Image())

	svc := factory.CreateWithResources(p, image, generated)
	if err := s.RegisterHook(buildservice.NewImageBuildHook(p, factory.Name(), svc, image)); err != nil {
		return err
	}

	if cfg.AutoDeployEnabled {
		if err := s.RegisterHook(kubernetes.NewApplyHook(group, generated, opts.Cluster)); err != nil {
			return err
		}
	}
	return nil
}
