package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/testutil"
)

type fakeEngine struct {
	buildOpts   build.ImageBuildOptions
	contextTar  []string
	buildOutput string
	pushed      []string
	pushOutput  string
	closed      bool
}

func (e *fakeEngine) ImageBuild(_ context.Context, buildContext io.Reader, opts build.ImageBuildOptions) (build.ImageBuildResponse, error) {
	e.buildOpts = opts
	tr := tar.NewReader(buildContext)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return build.ImageBuildResponse{}, err
		}
		e.contextTar = append(e.contextTar, hdr.Name)
	}
	return build.ImageBuildResponse{Body: io.NopCloser(strings.NewReader(e.buildOutput))}, nil
}

func (e *fakeEngine) ImagePush(_ context.Context, ref string, _ image.PushOptions) (io.ReadCloser, error) {
	e.pushed = append(e.pushed, ref)
	return io.NopCloser(strings.NewReader(e.pushOutput)), nil
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

func useEngine(t *testing.T, e *fakeEngine) {
	t.Helper()
	orig := newEngine
	newEngine = func() (engine, error) { return e, nil }
	t.Cleanup(func() { newEngine = orig })
}

func TestCheckApplicability_RootDockerfile(t *testing.T) {
	root := testutil.ProjectDir(t, map[string]string{"Dockerfile": "FROM scratch\n"})
	p := project.New(root, project.BuildInfo{Name: "app"})

	got := NewFactory().CheckApplicability(p, buildservice.ImageConfiguration{})

	assert.True(t, got.Applicable)
	assert.Equal(t, "Docker build service is applicable.", got.Message)
}

func TestCheckApplicability_MissingConfiguredDockerfile(t *testing.T) {
	root := testutil.ProjectDir(t, map[string]string{"Dockerfile": "FROM scratch\n"})
	p := project.New(root, project.BuildInfo{Name: "app"})

	got := NewFactory().CheckApplicability(p, buildservice.ImageConfiguration{DockerFile: "docker/Dockerfile.prod"})

	assert.False(t, got.Applicable)
	assert.Equal(t,
		"Docker build service is not applicable to the project, due to not being able find Dockerfile at: "+
			filepath.Join(root, "docker", "Dockerfile.prod")+
			". Please configure the correct path to the Dockerfile.",
		got.Message)
}

func TestFactory_NameAndOrder(t *testing.T) {
	f := NewFactory()
	assert.Equal(t, "docker", f.Name())
	assert.Equal(t, 10, f.Order())
}

func TestBuild_TagsAndContext(t *testing.T) {
	root := testutil.ProjectDir(t, map[string]string{
		"docker/Dockerfile.prod": "FROM scratch\n",
		"main.go":                "package main\n",
	})
	e := &fakeEngine{buildOutput: `{"stream":"Step 1/1 : FROM scratch\n"}` + "\n" + `{"aux":{"ID":"sha256:abc"}}`}
	useEngine(t, e)

	svc := NewService(project.New(root, project.BuildInfo{Name: "app"}), buildservice.ImageConfiguration{
		Name: "app", Group: "acme", Version: "1.0", DockerFile: "docker/Dockerfile.prod",
	})
	require.NoError(t, svc.Build(context.Background()))

	assert.Equal(t, []string{"acme/app:1.0"}, e.buildOpts.Tags)
	assert.Equal(t, "docker/Dockerfile.prod", e.buildOpts.Dockerfile)
	assert.True(t, e.buildOpts.Remove)
	assert.Contains(t, e.contextTar, "main.go")
	assert.Contains(t, e.contextTar, "docker/Dockerfile.prod")
	assert.Empty(t, e.pushed)
	assert.True(t, e.closed)
}

func TestBuild_AutoPush(t *testing.T) {
	root := testutil.ProjectDir(t, map[string]string{"Dockerfile": "FROM scratch\n"})
	e := &fakeEngine{buildOutput: `{"stream":"ok"}`, pushOutput: `{"status":"Pushed"}`}
	useEngine(t, e)

	svc := NewService(project.New(root, project.BuildInfo{Name: "app"}), buildservice.ImageConfiguration{
		Name: "app", Registry: "quay.io", Version: "2.0", AutoPushEnabled: true,
	})
	require.NoError(t, svc.Build(context.Background()))

	assert.Equal(t, []string{"quay.io/app:2.0"}, e.pushed)
}

func TestBuild_DaemonError(t *testing.T) {
	root := testutil.ProjectDir(t, map[string]string{"Dockerfile": "FROM scratch\n"})
	e := &fakeEngine{buildOutput: `{"error":"pull access denied"}`}
	useEngine(t, e)

	svc := NewService(project.New(root, project.BuildInfo{Name: "app"}), buildservice.ImageConfiguration{Name: "app"})
	err := svc.Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pull access denied")
}

func TestBuild_ClientError(t *testing.T) {
	orig := newEngine
	newEngine = func() (engine, error) { return nil, errors.New("no daemon") }
	t.Cleanup(func() { newEngine = orig })

	svc := NewService(project.New(t.TempDir(), project.BuildInfo{Name: "app"}), buildservice.ImageConfiguration{Name: "app"})
	err := svc.Build(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no daemon")
}

func TestParseStream(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr string
	}{
		{name: "empty", input: ""},
		{name: "aux id", input: `{"stream":"x"}{"aux":{"ID":"sha256:1"}}`, wantID: "sha256:1"},
		{name: "error detail", input: `{"errorDetail":{"message":"boom"}}`, wantErr: "boom"},
		{name: "malformed", input: `{"stream":`, wantErr: "parsing daemon output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := parseStream(bytes.NewBufferString(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
