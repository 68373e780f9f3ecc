package buildservice

import (
	"os"
	"sort"

	"github.com/dekorate/cli/internal/output"
)

// Discovery is the execution context applied while factories are checked.
// Env entries (e.g. DOCKER_HOST, KUBECONFIG) are set for the duration of one
// lookup and restored afterwards.
type Discovery struct {
	Env map[string]string
}

// Scope applies d, runs fn and restores the previous environment. The
// restore also runs when fn fails or panics.
func (d Discovery) Scope(fn func() error) error {
	restore := d.apply()
	defer restore()
	return fn()
}

func (d Discovery) apply() func() {
	if len(d.Env) == 0 {
		return func() {}
	}

	keys := make([]string, 0, len(d.Env))
	for k := range d.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type saved struct {
		value string
		set   bool
	}
	previous := make(map[string]saved, len(keys))
	for _, k := range keys {
		v, ok := os.LookupEnv(k)
		previous[k] = saved{value: v, set: ok}
		if err := os.Setenv(k, d.Env[k]); err != nil {
			output.Warn("setting discovery environment", "key", k, "error", err)
		}
	}

	return func() {
		for _, k := range keys {
			p := previous[k]
			if p.set {
				_ = os.Setenv(k, p.value)
			} else {
				_ = os.Unsetenv(k)
			}
		}
	}
}
