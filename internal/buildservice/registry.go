package buildservice

import (
	"fmt"
	"sort"

	oerrors "github.com/dekorate/cli/internal/errors"
	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/project"
)

// Registry is a static, ordered set of build service factories.
type Registry struct {
	factories []Factory
}

// NewRegistry returns a registry of factories. Names must be unique.
func NewRegistry(factories ...Factory) (*Registry, error) {
	seen := make(map[string]struct{}, len(factories))
	for _, f := range factories {
		if _, ok := seen[f.Name()]; ok {
			return nil, fmt.Errorf("build service factory %q registered twice", f.Name())
		}
		seen[f.Name()] = struct{}{}
	}

	sorted := make([]Factory, len(factories))
	copy(sorted, factories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	return &Registry{factories: sorted}, nil
}

// Factories returns the factories by ascending order; equal orders keep
// registration order.
func (r *Registry) Factories() []Factory {
	out := make([]Factory, len(r.factories))
	copy(out, r.factories)
	return out
}

// Result pairs a factory with its applicability.
type Result struct {
	Factory       Factory
	Applicability Applicability
}

// Check evaluates every factory inside the discovery scope and returns the
// results in selection order.
func (r *Registry) Check(d Discovery, p *project.Project, cfg ImageConfiguration) ([]Result, error) {
	var results []Result
	err := d.Scope(func() error {
		for _, f := range r.factories {
			results = append(results, Result{Factory: f, Applicability: f.CheckApplicability(p, cfg)})
		}
		return nil
	})
	return results, err
}

// Find returns the first applicable factory by ascending order. Factories
// after the first applicable one are not checked. When none applies the
// error wraps errors.ErrNoBuildService and lists each factory's message.
func (r *Registry) Find(d Discovery, p *project.Project, cfg ImageConfiguration) (Factory, error) {
	var found Factory
	reasons := make(map[string]string)

	err := d.Scope(func() error {
		for _, f := range r.factories {
			a := f.CheckApplicability(p, cfg)
			output.Debug("checked build service",
				"name", f.Name(),
				"order", f.Order(),
				"applicable", a.Applicable,
				"message", a.Message,
			)
			if a.Applicable {
				found = f
				return nil
			}
			reasons[f.Name()] = a.Message
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, oerrors.NewNoBuildServiceError(p.Root, reasons)
	}
	return found, nil
}
