package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.DockerAPIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, Version, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:          "v1.0.0",
		GitCommit:        "abc123",
		BuildDate:        "2026-01-29",
		GoVersion:        "go1.25",
		DockerAPIVersion: "1.47",
	}

	str := info.String()

	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "2026-01-29/abc123")
	assert.Contains(t, str, "go1.25")
	assert.Contains(t, str, "API Version: 1.47")
}
