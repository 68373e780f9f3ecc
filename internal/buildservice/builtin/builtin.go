// Package builtin assembles the build service factories shipped with
// dekorate.
package builtin

import (
	"github.com/dekorate/cli/internal/buildservice"
	"github.com/dekorate/cli/internal/buildservice/docker"
	"github.com/dekorate/cli/internal/buildservice/s2i"
	"github.com/dekorate/cli/internal/kubernetes"
)

// Registry returns a registry holding the docker (order 10) and s2i
// (order 20) factories.
func Registry(opts kubernetes.ClientOptions) *buildservice.Registry {
	r, err := buildservice.NewRegistry(docker.NewFactory(), s2i.NewFactory(opts))
	if err != nil {
		// Names are constants; a clash is a programming error.
		panic(err)
	}
	return r
}
