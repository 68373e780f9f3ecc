package s2i

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/kubernetes"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
)

// uploader starts a binary build of the named BuildConfig from archive and
// returns the build name.
type uploader func(ctx context.Context, client *kubernetes.Client, namespace, name string, archive io.Reader) (string, error)

// Service runs an s2i binary build.
type Service struct {
	project   *project.Project
	config    buildservice.ImageConfiguration
	resources []*resource.Resource
	connect   func() (*kubernetes.Client, error)
	upload    uploader
}

// Build applies the build resources, then uploads the project directory
// to the BuildConfig named after the image.
func (s *Service) Build(ctx context.Context) error {
	client, err := s.connect()
	if err != nil {
		return err
	}

	if len(s.resources) > 0 {
		result := kubernetes.Apply(ctx, client, s.resources, kubernetes.ApplyOptions{})
		if len(result.Errors) > 0 {
			return fmt.Errorf("applying s2i resources: %w", &result.Errors[0])
		}
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(buildservice.ArchiveDirectory(s.project.Root, pw))
	}()
	defer pr.Close()

	buildName, err := s.upload(ctx, client, client.Namespace, s.config.Name, pr)
	if err != nil {
		return fmt.Errorf("starting s2i build %s: %w", s.config.Name, err)
	}
	output.Debug("s2i build started", "build", buildName, "namespace", client.Namespace)
	return nil
}

// uploadBinary posts archive to the instantiatebinary subresource.
func uploadBinary(ctx context.Context, client *kubernetes.Client, namespace, name string, archive io.Reader) (string, error) {
	raw, err := client.Clientset.Discovery().RESTClient().Post().
		AbsPath("/apis", BuildGroupVersion, "namespaces", namespace, "buildconfigs", name, "instantiatebinary").
		SetHeader("Content-Type", "application/octet-stream").
		Body(archive).
		Do(ctx).
		Raw()
	if err != nil {
		return "", err
	}

	var build struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &build); err != nil {
		return "", fmt.Errorf("decoding build: %w", err)
	}
	return build.Metadata.Name, nil
}
