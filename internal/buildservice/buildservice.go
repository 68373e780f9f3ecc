// Package buildservice defines image build service providers and the
// ordered registry used to select the first provider applicable to a
// project.
package buildservice

import (
	"context"
	"strings"

	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
)

// ImageConfiguration describes the image to build. It is derived from the
// resolved platform configuration right before provider selection.
type ImageConfiguration struct {
	Name    string
	Group   string
	Version string

	// Registry is the optional registry host the image is tagged for.
	Registry string
	// DockerFile is the project-relative Dockerfile path. Empty means
	// "Dockerfile".
	DockerFile string
	// AutoPushEnabled pushes the image after a successful build.
	AutoPushEnabled bool
}

// Image renders the image reference [registry/][group/]name[:version].
func (c ImageConfiguration) Image() string {
	var parts []string
	if c.Registry != "" {
		parts = append(parts, c.Registry)
	}
	if c.Group != "" {
		parts = append(parts, c.Group)
	}
	parts = append(parts, c.Name)

	ref := strings.Join(parts, "/")
	if c.Version != "" {
		ref += ":" + c.Version
	}
	return ref
}

// Applicability is the result of a provider's applicability check.
type Applicability struct {
	Applicable bool
	Message    string
}

// BuildService builds an image for a project.
type BuildService interface {
	Build(ctx context.Context) error
}

// Factory is a named, ordered build service provider.
type Factory interface {
	// Name is unique within a registry.
	Name() string
	// Order ranks the factory; lower values are tried first.
	Order() int
	// CheckApplicability reports whether the factory can build images for
	// the project. It never fails; problems are reported in the message.
	CheckApplicability(p *project.Project, cfg ImageConfiguration) Applicability
	// Create returns a build service for the project.
	Create(p *project.Project, cfg ImageConfiguration) BuildService
	// CreateWithResources returns a build service that may use the
	// resources generated for the project, e.g. to create build objects.
	CreateWithResources(p *project.Project, cfg ImageConfiguration, resources []*resource.Resource) BuildService
}
