package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/dekorate/cli/internal/errors"
	"github.com/dekorate/cli/internal/testutil"
)

func TestLoad_FromGoMod(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "go.mod", "module github.com/acme/order_service\n\ngo 1.25\n")

	p, err := Load(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, dir, p.Root)
	assert.Equal(t, "order-service", p.BuildInfo.Name)
	assert.Equal(t, "acme", p.BuildInfo.Group)
	assert.Equal(t, DefaultVersion, p.BuildInfo.Version)
	assert.Equal(t, "github.com/acme/order_service", p.BuildInfo.Module)
	assert.Equal(t, "go", p.BuildInfo.BuildTool)
}

func TestLoad_WithoutGoModUsesDirName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Shop")
	testutil.WriteFile(t, dir, "Dockerfile", "FROM scratch\n")

	p, err := Load(dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, "shop", p.BuildInfo.Name)
	assert.Empty(t, p.BuildInfo.Group)
	assert.Empty(t, p.BuildInfo.BuildTool)
}

func TestLoad_OptionsOverride(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "go.mod", "module example.com/app\n")

	p, err := Load(dir, Options{Name: "custom", Group: "team", Version: "1.2.3"})
	require.NoError(t, err)

	assert.Equal(t, BuildInfo{
		Name:      "custom",
		Group:     "team",
		Version:   "1.2.3",
		Module:    "example.com/app",
		BuildTool: "go",
	}, p.BuildInfo)
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}

func TestProject_Resolve(t *testing.T) {
	p := New("/work/app", BuildInfo{})

	assert.Equal(t, filepath.Join("/work/app", "docker", "Dockerfile"), p.Resolve("docker/Dockerfile"))
	assert.Equal(t, "/etc/Dockerfile", p.Resolve("/etc/Dockerfile"))
}
