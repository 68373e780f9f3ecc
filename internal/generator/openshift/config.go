// Package openshift generates OpenShift resources (DeploymentConfig,
// Service, ImageStreams, BuildConfig and Route) into the "openshift"
// resource group, and triggers an image build when the configuration asks
// for one.
package openshift

import (
	"github.com/dekorate/cli/internal/generator"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/session"
)

const (
	// Group is the resource group key.
	Group = "openshift"

	// PropertyPrefix is the property map section read by AddProperties.
	PropertyPrefix = "dekorate.openshift"

	// DefaultBuilderImage is the s2i builder used when none is configured.
	DefaultBuilderImage = "fabric8/s2i-java:2.3"
)

// Config is the OpenShift platform configuration.
type Config struct {
	generator.Config `mapstructure:",squash"`

	// BuilderImage is the s2i builder image.
	BuilderImage string `json:"builderImage,omitempty" mapstructure:"builderImage"`

	// Expose creates a Route for the application Service.
	Expose bool `json:"expose,omitempty" mapstructure:"expose"`

	// Host is the Route host. Empty lets the router assign one.
	Host string `json:"host,omitempty" mapstructure:"host"`

	// SourceToImage is derived by ApplySourceToImageHook, never authored.
	SourceToImage *SourceToImageConfig `json:"-" mapstructure:"-"`
}

// SourceToImageConfig configures the s2i build.
type SourceToImageConfig struct {
	BuilderImage string
}

// Application is the OpenShift marker, as produced by the source scanner.
type Application struct {
	generator.Config

	BuilderImage string `json:"builderImage,omitempty"`
	Expose       bool   `json:"expose,omitempty"`
	Host         string `json:"host,omitempty"`
}

// DefaultSourceToImageConfig is the configuration used on close when no
// OpenShift configuration was registered.
func DefaultSourceToImageConfig() Config {
	return Config{
		BuilderImage:  DefaultBuilderImage,
		SourceToImage: &SourceToImageConfig{BuilderImage: DefaultBuilderImage},
	}
}

func (c *Config) overlay(o Config, keys generator.Keys) {
	c.Config.Overlay(o.Config, keys)
	if keys.Has("builderImage", o.BuilderImage != "") {
		c.BuilderImage = o.BuilderImage
	}
	if keys.Has("expose", o.Expose) {
		c.Expose = o.Expose
	}
	if keys.Has("host", o.Host != "") {
		c.Host = o.Host
	}
}

func configFromMarker(app Application) Config {
	return Config{
		Config:       app.Config,
		BuilderImage: app.BuilderImage,
		Expose:       app.Expose,
		Host:         app.Host,
	}
}

// ApplyProjectInfo returns an adapter filling name, group and version from
// the project where they are unset.
func ApplyProjectInfo(p *project.Project) session.Adapter[Config] {
	return func(c *Config) {
		generator.ApplyProjectInfo(p, &c.Config)
	}
}

// ApplySourceToImageHook returns an adapter deriving the s2i configuration
// from derived, a configuration built from the same origin. A derived
// builder image always wins; otherwise the default is set if nothing set
// one before.
func ApplySourceToImageHook(derived Config) session.Adapter[Config] {
	return func(c *Config) {
		if derived.BuilderImage != "" {
			c.SourceToImage = &SourceToImageConfig{BuilderImage: derived.BuilderImage}
			return
		}
		if c.SourceToImage == nil {
			c.SourceToImage = &SourceToImageConfig{BuilderImage: DefaultBuilderImage}
		}
	}
}

// builderImage returns the builder image the BuildConfig should use.
func (c Config) builderImage() string {
	switch {
	case c.SourceToImage != nil && c.SourceToImage.BuilderImage != "":
		return c.SourceToImage.BuilderImage
	case c.BuilderImage != "":
		return c.BuilderImage
	default:
		return DefaultBuilderImage
	}
}
