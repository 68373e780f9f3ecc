package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	dockerclient "github.com/docker/docker/client"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
)

// engine is the subset of the Docker client the service uses.
type engine interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)
	Close() error
}

// newEngine connects to the daemon named by DOCKER_HOST and friends.
var newEngine = func() (engine, error) {
	return dockerclient.NewClientWithOpts(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
}

// Service builds the project's Dockerfile with the project root as build
// context.
type Service struct {
	project *project.Project
	config  buildservice.ImageConfiguration
}

// NewService returns a docker build service.
func NewService(p *project.Project, cfg buildservice.ImageConfiguration) *Service {
	return &Service{project: p, config: cfg}
}

// Build builds (and, with AutoPushEnabled, pushes) the image.
func (s *Service) Build(ctx context.Context) error {
	cli, err := newEngine()
	if err != nil {
		return fmt.Errorf("creating Docker client: %w", err)
	}
	defer cli.Close()

	dockerfile, err := s.relativeDockerFile()
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(buildservice.ArchiveDirectory(s.project.Root, pw))
	}()
	defer pr.Close()

	ref := s.config.Image()
	resp, err := cli.ImageBuild(ctx, pr, build.ImageBuildOptions{
		Tags:       []string{ref},
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("docker build: %w", err)
	}
	defer resp.Body.Close()

	imageID, err := parseStream(resp.Body)
	if err != nil {
		return fmt.Errorf("docker build: %w", err)
	}
	output.Debug("docker build finished", "image", ref, "id", imageID)

	if !s.config.AutoPushEnabled {
		return nil
	}

	rc, err := cli.ImagePush(ctx, ref, image.PushOptions{})
	if err != nil {
		return fmt.Errorf("docker push %s: %w", ref, err)
	}
	defer rc.Close()

	if _, err := parseStream(rc); err != nil {
		return fmt.Errorf("docker push %s: %w", ref, err)
	}
	output.Debug("docker push finished", "image", ref)
	return nil
}

// relativeDockerFile returns the Dockerfile path relative to the build
// context, in the slash form the daemon expects.
func (s *Service) relativeDockerFile() (string, error) {
	path := s.project.Resolve(dockerFile(s.config))
	rel, err := filepath.Rel(s.project.Root, path)
	if err != nil {
		return "", fmt.Errorf("resolving Dockerfile %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

// parseStream drains a daemon JSON message stream, logging build output at
// debug level, and returns the image ID from the aux message, if any.
func parseStream(r io.Reader) (string, error) {
	decoder := json.NewDecoder(r)
	var imageID string

	for {
		var msg struct {
			Stream string `json:"stream"`
			Status string `json:"status"`
			Aux    struct {
				ID string `json:"ID"`
			} `json:"aux"`
			Error       string `json:"error"`
			ErrorDetail struct {
				Message string `json:"message"`
			} `json:"errorDetail"`
		}
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				return imageID, nil
			}
			return "", fmt.Errorf("parsing daemon output: %w", err)
		}
		if msg.Error != "" {
			return "", fmt.Errorf("daemon error: %s", msg.Error)
		}
		if msg.ErrorDetail.Message != "" {
			return "", fmt.Errorf("daemon error: %s", msg.ErrorDetail.Message)
		}
		if msg.Stream != "" {
			output.Debug("docker", "stream", msg.Stream)
		}
		if msg.Aux.ID != "" {
			imageID = msg.Aux.ID
		}
	}
}
