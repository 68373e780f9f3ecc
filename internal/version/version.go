// Package version provides version information for the dekorate CLI.
package version

import (
	"fmt"
	"runtime"

	dockerapi "github.com/docker/docker/api"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// DockerAPIVersion is the highest Docker Engine API version the
	// docker build service speaks before negotiation.
	DockerAPIVersion string `json:"dockerAPIVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:          Version,
		GitCommit:        GitCommit,
		BuildDate:        BuildDate,
		GoVersion:        runtime.Version(),
		DockerAPIVersion: dockerapi.DefaultVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("dekorate:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nDocker:\n  API Version: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.DockerAPIVersion)
}
