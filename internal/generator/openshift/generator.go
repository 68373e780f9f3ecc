package openshift

import (
	"fmt"

	"github.com/dekorate/cli/internal/generator"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/session"
)

// Generator registers OpenShift configuration fragments on a session and
// acts as the session's close listener for the openshift group.
type Generator struct {
	session *session.Session
	project *project.Project
	opts    generator.Options
}

// New returns a generator bound to s and p.
func New(s *session.Session, p *project.Project, opts generator.Options) *Generator {
	return &Generator{session: s, project: p, opts: opts}
}

// AddMarker registers the configuration carried by an OpenShift marker.
func (g *Generator) AddMarker(app Application) error {
	derived := configFromMarker(app)
	generator.ApplyProjectInfo(g.project, &derived.Config)

	supplier := session.NewMarkerSupplier[Config](func(c *Config) {
		c.overlay(configFromMarker(app), nil)
	}).Accept(
		ApplyProjectInfo(g.project),
		ApplySourceToImageHook(derived),
	)
	return g.on(supplier)
}

// AddProperties registers the configuration under dekorate.openshift in
// props. A map without that section registers nothing.
func (g *Generator) AddProperties(props map[string]any) error {
	var decoded Config
	keys, ok, err := generator.Decode(props, PropertyPrefix, &decoded)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	supplier := session.NewPropertySupplier[Config](func(c *Config) {
		c.overlay(decoded, keys)
	}).Accept(
		ApplyProjectInfo(g.project),
		ApplySourceToImageHook(decoded),
	)
	return g.on(supplier)
}

func (g *Generator) on(supplier *session.Supplier[Config]) error {
	if err := g.session.AddConfigurator(supplier); err != nil {
		return err
	}
	if err := g.session.AddHandler(NewHandler(g.session.Resources())); err != nil {
		return err
	}
	return g.session.AddListener(g)
}

// OnClosed triggers the image build when autoBuild or autoDeploy is set.
func (g *Generator) OnClosed(s *session.Session) error {
	cfg, ok := session.Resolve[Config](s)
	if !ok {
		cfg = DefaultSourceToImageConfig()
	}
	output.GeneratorLogger(Group).Debug("resolved configuration",
		"name", cfg.Name, "version", cfg.Version,
		"autoBuild", cfg.AutoBuildEnabled, "autoDeploy", cfg.AutoDeployEnabled)

	if err := generator.ImageBuild(s, g.project, Group, cfg.Config, g.opts); err != nil {
		return fmt.Errorf("openshift: %w", err)
	}
	return nil
}
