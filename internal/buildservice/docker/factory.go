// Package docker provides the Dockerfile-based build service: applicable
// when the project contains the configured Dockerfile, builds through the
// Docker Engine API.
package docker

import (
	"fmt"
	"os"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
)

const (
	// Name is the factory name.
	Name = "docker"

	// Order ranks docker ahead of cluster-side builds.
	Order = 10

	// DefaultDockerFile is used when no Dockerfile path is configured.
	DefaultDockerFile = "Dockerfile"

	messageOK  = "Docker build service is applicable."
	messageNOK = "Docker build service is not applicable to the project, due to not being able find Dockerfile at: %s. Please configure the correct path to the Dockerfile."
)

// Factory creates docker build services.
type Factory struct{}

// NewFactory returns the docker factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Name returns "docker".
func (f *Factory) Name() string { return Name }

// Order returns 10.
func (f *Factory) Order() int { return Order }

// CheckApplicability reports whether the configured Dockerfile (default
// "Dockerfile") exists under the project root. It only stats the path.
func (f *Factory) CheckApplicability(p *project.Project, cfg buildservice.ImageConfiguration) buildservice.Applicability {
	path := p.Resolve(dockerFile(cfg))
	if _, err := os.Stat(path); err != nil {
		return buildservice.Applicability{Message: fmt.Sprintf(messageNOK, path)}
	}
	return buildservice.Applicability{Applicable: true, Message: messageOK}
}

// Create returns a docker build service.
func (f *Factory) Create(p *project.Project, cfg buildservice.ImageConfiguration) buildservice.BuildService {
	return NewService(p, cfg)
}

// CreateWithResources returns a docker build service. Generated resources
// are not needed for a Dockerfile build.
func (f *Factory) CreateWithResources(p *project.Project, cfg buildservice.ImageConfiguration, _ []*resource.Resource) buildservice.BuildService {
	return NewService(p, cfg)
}

func dockerFile(cfg buildservice.ImageConfiguration) string {
	if cfg.DockerFile != "" {
		return cfg.DockerFile
	}
	return DefaultDockerFile
}
