package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
	"github.com/dekorate/cli/internal/session"
)

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "autoBuildEnabled", camelCase("auto-build-enabled"))
	assert.Equal(t, "autoBuildEnabled", camelCase("autoBuildEnabled"))
	assert.Equal(t, "name", camelCase("name"))
}

func TestExpand(t *testing.T) {
	got := Expand(map[string]any{
		"dekorate.openshift.docker-file":                      "Dockerfile.jvm",
		"dekorate.openshift.labels.app.kubernetes.io/part-of": "shop",
		"dekorate": map[string]any{
			"openshift": map[string]any{
				"labels":  map[string]any{"team": "payments"},
				"version": "2.0",
			},
			"kubernetes.replicas": 3,
		},
	})

	assert.Equal(t, map[string]any{
		"dekorate": map[string]any{
			"openshift": map[string]any{
				"dockerFile": "Dockerfile.jvm",
				"version":    "2.0",
				"labels": map[string]any{
					"app.kubernetes.io/part-of": "shop",
					"team":                      "payments",
				},
			},
			"kubernetes": map[string]any{"replicas": 3},
		},
	}, got)
}

func TestDecode(t *testing.T) {
	var cfg Config
	keys, ok, err := Decode(map[string]any{
		"dekorate.kubernetes.auto-build-enabled": "true",
		"dekorate.kubernetes.replicas":           "3",
		"dekorate.kubernetes.ports": []any{
			map[string]any{"name": "http", "containerPort": "8080"},
		},
		"dekorate.kubernetes.unknown": "x",
	}, "dekorate.kubernetes", &cfg)

	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cfg.AutoBuildEnabled)
	assert.Equal(t, 3, cfg.Replicas)
	assert.Equal(t, []Port{{Name: "http", ContainerPort: 8080}}, cfg.Ports)
	assert.True(t, keys.Has("autoBuildEnabled", false))
	assert.False(t, keys.Has("version", true))
}

func TestDecode_MissingSection(t *testing.T) {
	var cfg Config
	_, ok, err := Decode(map[string]any{"server.port": "8080"}, "dekorate.openshift", &cfg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecode_TypeError(t *testing.T) {
	var cfg Config
	_, _, err := Decode(map[string]any{"dekorate.openshift.replicas": "many"}, "dekorate.openshift", &cfg)
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	base := Config{Name: "app", Version: "1.0", AutoBuildEnabled: true, Labels: map[string]string{"a": "1"}}

	t.Run("nil keys copy non-zero fields", func(t *testing.T) {
		c := base
		c.Overlay(Config{Version: "2.0"}, nil)
		assert.Equal(t, "app", c.Name)
		assert.Equal(t, "2.0", c.Version)
		assert.True(t, c.AutoBuildEnabled)
	})

	t.Run("keys copy set fields including zero values", func(t *testing.T) {
		c := base
		c.Overlay(Config{}, Keys{"autobuildenabled": true})
		assert.False(t, c.AutoBuildEnabled)
		assert.Equal(t, "1.0", c.Version)
	})

	t.Run("maps are copied", func(t *testing.T) {
		var c Config
		src := Config{Labels: map[string]string{"a": "1"}}
		c.Overlay(src, nil)
		c.Labels["a"] = "changed"
		assert.Equal(t, "1", src.Labels["a"])
	})
}

func TestApplyProjectInfo(t *testing.T) {
	p := project.New("/work/app", project.BuildInfo{Name: "app", Group: "acme", Version: "0.1"})

	c := Config{Version: "1.0"}
	ApplyProjectInfo(p, &c)

	assert.Equal(t, Config{Name: "app", Group: "acme", Version: "1.0"}, c)
}

type countingFactory struct {
	checks  int
	created int
}

func (f *countingFactory) Name() string { return "docker" }
func (f *countingFactory) Order() int   { return 10 }

func (f *countingFactory) CheckApplicability(*project.Project, buildservice.ImageConfiguration) buildservice.Applicability {
	f.checks++
	return buildservice.Applicability{Applicable: true}
}

func (f *countingFactory) Create(p *project.Project, cfg buildservice.ImageConfiguration) buildservice.BuildService {
	return f.CreateWithResources(p, cfg, nil)
}

func (f *countingFactory) CreateWithResources(*project.Project, buildservice.ImageConfiguration, []*resource.Resource) buildservice.BuildService {
	f.created++
	return noopService{}
}

type noopService struct{}

func (noopService) Build(context.Context) error { return nil }

func TestImageBuild(t *testing.T) {
	p := project.New("/work/app", project.BuildInfo{Name: "fallback"})

	tests := []struct {
		name      string
		cfg       Config
		wantHooks []string
	}{
		{name: "no flags", cfg: Config{}, wantHooks: nil},
		{name: "auto build", cfg: Config{AutoBuildEnabled: true, Version: "1"}, wantHooks: []string{"image-build:fallback:1"}},
		{name: "auto deploy", cfg: Config{Name: "app", AutoDeployEnabled: true}, wantHooks: []string{"image-build:app", "apply:web"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &countingFactory{}
			reg, err := buildservice.NewRegistry(f)
			require.NoError(t, err)

			s := session.New()
			require.NoError(t, s.AddListener(session.ListenerFunc(func(s *session.Session) error {
				return ImageBuild(s, p, "web", tt.cfg, Options{Registry: reg})
			})))
			require.NoError(t, s.Close())

			var names []string
			for _, h := range s.Hooks() {
				names = append(names, h.Name())
			}
			assert.Equal(t, tt.wantHooks, names)
			if tt.wantHooks == nil {
				assert.Zero(t, f.checks)
			} else {
				assert.Equal(t, 1, f.created)
			}
		})
	}
}
