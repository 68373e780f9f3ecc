package buildservice

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/dekorate/cli/internal/errors"
	"github.com/dekorate/cli/internal/project"
	"github.com/dekorate/cli/internal/resource"
)

type fakeFactory struct {
	name       string
	order      int
	applicable bool
	checks     *int
	created    *int
	check      func()
}

func (f *fakeFactory) Name() string { return f.name }
func (f *fakeFactory) Order() int   { return f.order }

func (f *fakeFactory) CheckApplicability(*project.Project, ImageConfiguration) Applicability {
	if f.checks != nil {
		*f.checks++
	}
	if f.check != nil {
		f.check()
	}
	return Applicability{Applicable: f.applicable, Message: f.name + " says " + map[bool]string{true: "yes", false: "no"}[f.applicable]}
}

func (f *fakeFactory) Create(p *project.Project, cfg ImageConfiguration) BuildService {
	return f.CreateWithResources(p, cfg, nil)
}

func (f *fakeFactory) CreateWithResources(*project.Project, ImageConfiguration, []*resource.Resource) BuildService {
	if f.created != nil {
		*f.created++
	}
	return &fakeService{}
}

type fakeService struct {
	builds int
	err    error
}

func (s *fakeService) Build(context.Context) error {
	s.builds++
	return s.err
}

func testProject() *project.Project {
	return project.New("/work/app", project.BuildInfo{Name: "app", Version: "1.0"})
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(&fakeFactory{name: "docker"}, &fakeFactory{name: "docker"})
	assert.Error(t, err)
}

func TestFactories_SortedByOrderStable(t *testing.T) {
	r, err := NewRegistry(
		&fakeFactory{name: "c", order: 30},
		&fakeFactory{name: "a", order: 10},
		&fakeFactory{name: "b2", order: 20},
		&fakeFactory{name: "b1", order: 20},
	)
	require.NoError(t, err)

	var names []string
	for _, f := range r.Factories() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"a", "b2", "b1", "c"}, names)
}

func TestFind_LowestOrderWins(t *testing.T) {
	r, err := NewRegistry(
		&fakeFactory{name: "twenty", order: 20, applicable: true},
		&fakeFactory{name: "ten", order: 10, applicable: true},
		&fakeFactory{name: "thirty", order: 30, applicable: true},
	)
	require.NoError(t, err)

	f, err := r.Find(Discovery{}, testProject(), ImageConfiguration{})
	require.NoError(t, err)
	assert.Equal(t, "ten", f.Name())
}

func TestFind_TieBrokenByRegistrationOrder(t *testing.T) {
	r, err := NewRegistry(
		&fakeFactory{name: "first", order: 10, applicable: true},
		&fakeFactory{name: "second", order: 10, applicable: true},
	)
	require.NoError(t, err)

	f, err := r.Find(Discovery{}, testProject(), ImageConfiguration{})
	require.NoError(t, err)
	assert.Equal(t, "first", f.Name())
}

func TestFind_FirstApplicableDespiteHigherOrder(t *testing.T) {
	laterChecks := 0
	r, err := NewRegistry(
		&fakeFactory{name: "docker", order: 10, applicable: false},
		&fakeFactory{name: "s2i", order: 20, applicable: true},
		&fakeFactory{name: "later", order: 30, applicable: true, checks: &laterChecks},
	)
	require.NoError(t, err)

	f, err := r.Find(Discovery{}, testProject(), ImageConfiguration{})
	require.NoError(t, err)
	assert.Equal(t, "s2i", f.Name())
	assert.Equal(t, 0, laterChecks, "factories after the selected one are not checked")
}

func TestFind_NoneApplicable(t *testing.T) {
	created := 0
	r, err := NewRegistry(
		&fakeFactory{name: "docker", order: 10, created: &created},
		&fakeFactory{name: "s2i", order: 20, created: &created},
	)
	require.NoError(t, err)

	f, err := r.Find(Discovery{}, testProject(), ImageConfiguration{})
	assert.Nil(t, f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNoBuildService))
	assert.Contains(t, err.Error(), "docker says no")
	assert.Contains(t, err.Error(), "s2i says no")
	assert.Equal(t, 0, created)
}

func TestFind_EmptyRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Find(Discovery{}, testProject(), ImageConfiguration{})
	assert.True(t, errors.Is(err, oerrors.ErrNoBuildService))
}

func TestCheck_ReportsEveryFactory(t *testing.T) {
	r, err := NewRegistry(
		&fakeFactory{name: "s2i", order: 20, applicable: true},
		&fakeFactory{name: "docker", order: 10},
	)
	require.NoError(t, err)

	results, err := r.Check(Discovery{}, testProject(), ImageConfiguration{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "docker", results[0].Factory.Name())
	assert.False(t, results[0].Applicability.Applicable)
	assert.True(t, results[1].Applicability.Applicable)
}

func TestDiscovery_EnvVisibleDuringLookupAndRestored(t *testing.T) {
	t.Setenv("DEKORATE_TEST_SET", "original")
	require.NoError(t, os.Unsetenv("DEKORATE_TEST_UNSET"))

	var seenSet, seenUnset string
	r, err := NewRegistry(&fakeFactory{name: "docker", order: 10, applicable: true, check: func() {
		seenSet = os.Getenv("DEKORATE_TEST_SET")
		seenUnset = os.Getenv("DEKORATE_TEST_UNSET")
	}})
	require.NoError(t, err)

	d := Discovery{Env: map[string]string{
		"DEKORATE_TEST_SET":   "swapped",
		"DEKORATE_TEST_UNSET": "added",
	}}
	_, err = r.Find(d, testProject(), ImageConfiguration{})
	require.NoError(t, err)

	assert.Equal(t, "swapped", seenSet)
	assert.Equal(t, "added", seenUnset)
	assert.Equal(t, "original", os.Getenv("DEKORATE_TEST_SET"))
	_, stillSet := os.LookupEnv("DEKORATE_TEST_UNSET")
	assert.False(t, stillSet)
}

func TestDiscovery_RestoredOnPanic(t *testing.T) {
	t.Setenv("DEKORATE_TEST_SET", "original")

	r, err := NewRegistry(&fakeFactory{name: "docker", order: 10, check: func() {
		panic("lookup failed")
	}})
	require.NoError(t, err)

	d := Discovery{Env: map[string]string{"DEKORATE_TEST_SET": "swapped"}}
	assert.Panics(t, func() {
		_, _ = r.Find(d, testProject(), ImageConfiguration{})
	})
	assert.Equal(t, "original", os.Getenv("DEKORATE_TEST_SET"))
}

func TestDiscovery_RestoredOnError(t *testing.T) {
	t.Setenv("DEKORATE_TEST_SET", "original")
	boom := errors.New("boom")

	err := Discovery{Env: map[string]string{"DEKORATE_TEST_SET": "swapped"}}.Scope(func() error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "original", os.Getenv("DEKORATE_TEST_SET"))
}

func TestImageConfiguration_Image(t *testing.T) {
	tests := []struct {
		name string
		cfg  ImageConfiguration
		want string
	}{
		{"name only", ImageConfiguration{Name: "app"}, "app"},
		{"group and version", ImageConfiguration{Name: "app", Group: "acme", Version: "1.0"}, "acme/app:1.0"},
		{"full", ImageConfiguration{Name: "app", Group: "acme", Version: "1.0", Registry: "quay.io"}, "quay.io/acme/app:1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Image())
		})
	}
}

func TestImageBuildHook_Run(t *testing.T) {
	svc := &fakeService{}
	h := NewImageBuildHook(testProject(), "docker", svc, ImageConfiguration{Name: "app", Version: "1.0"})

	assert.Equal(t, "image-build:app:1.0", h.Name())
	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, 1, svc.builds)
}

func TestImageBuildHook_RunError(t *testing.T) {
	boom := errors.New("daemon unavailable")
	h := NewImageBuildHook(testProject(), "docker", &fakeService{err: boom}, ImageConfiguration{Name: "app"})

	err := h.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}
