// Package kubernetes generates plain Kubernetes resources (Deployment,
// Service and Ingress) into the "kubernetes" resource group.
package kubernetes

import (
	"fmt"

	"github.com/dekorate/cli/internal/generator"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
	"github.com/dekorate/cli/internal/session"
)

const (
	// Group is the resource group key.
	Group = "kubernetes"

	// PropertyPrefix is the property map section read by AddProperties.
	PropertyPrefix = "dekorate.kubernetes"
)

// Config is the Kubernetes platform configuration.
type Config struct {
	generator.Config `mapstructure:",squash"`

	ServiceType     string `json:"serviceType,omitempty" mapstructure:"serviceType"`
	ImagePullPolicy string `json:"imagePullPolicy,omitempty" mapstructure:"imagePullPolicy"`

	// Host creates an Ingress routing to the first port.
	Host string `json:"host,omitempty" mapstructure:"host"`
}

// Application is the Kubernetes marker.
type Application struct {
	generator.Config

	ServiceType     string `json:"serviceType,omitempty"`
	ImagePullPolicy string `json:"imagePullPolicy,omitempty"`
	Host            string `json:"host,omitempty"`
}

func (c *Config) overlay(o Config, keys generator.Keys) {
	c.Config.Overlay(o.Config, keys)
	if keys.Has("serviceType", o.ServiceType != "") {
		c.ServiceType = o.ServiceType
	}
	if keys.Has("imagePullPolicy", o.ImagePullPolicy != "") {
		c.ImagePullPolicy = o.ImagePullPolicy
	}
	if keys.Has("host", o.Host != "") {
		c.Host = o.Host
	}
}

// Generator registers Kubernetes configuration fragments and listens for
// the session close.
type Generator struct {
	session *session.Session
	project *project.Project
	opts    generator.Options
}

// New returns a generator bound to s and p.
func New(s *session.Session, p *project.Project, opts generator.Options) *Generator {
	return &Generator{session: s, project: p, opts: opts}
}

// AddMarker registers the configuration carried by a Kubernetes marker.
func (g *Generator) AddMarker(app Application) error {
	cfg := Config{
		Config:          app.Config,
		ServiceType:     app.ServiceType,
		ImagePullPolicy: app.ImagePullPolicy,
		Host:            app.Host,
	}
	return g.on(session.NewMarkerSupplier[Config](func(c *Config) {
		c.overlay(cfg, nil)
	}))
}

// AddProperties registers the configuration under dekorate.kubernetes.
func (g *Generator) AddProperties(props map[string]any) error {
	var decoded Config
	keys, ok, err := generator.Decode(props, PropertyPrefix, &decoded)
	if err != nil || !ok {
		return err
	}
	return g.on(session.NewPropertySupplier[Config](func(c *Config) {
		c.overlay(decoded, keys)
	}))
}

func (g *Generator) on(supplier *session.Supplier[Config]) error {
	supplier = supplier.Accept(func(c *Config) {
		generator.ApplyProjectInfo(g.project, &c.Config)
	})
	if err := g.session.AddConfigurator(supplier); err != nil {
		return err
	}
	if err := g.session.AddHandler(&handler{groups: g.session.Resources()}); err != nil {
		return err
	}
	return g.session.AddListener(g)
}

// OnClosed triggers the image build when autoBuild or autoDeploy is set.
func (g *Generator) OnClosed(s *session.Session) error {
	cfg, _ := session.Resolve[Config](s)
	if err := generator.ImageBuild(s, g.project, Group, cfg.Config, g.opts); err != nil {
		return fmt.Errorf("kubernetes: %w", err)
	}
	return nil
}

type handler struct {
	groups *resource.Groups
}

func (h *handler) Name() string { return Group }

func (h *handler) Handle(s *session.Session) error {
	cfg, ok := session.Resolve[Config](s)
	if !ok {
		return nil
	}
	res := Resources(cfg)
	h.groups.Add(Group, res...)
	output.GeneratorLogger(Group).Debug("generated resources", "count", len(res))
	return nil
}
