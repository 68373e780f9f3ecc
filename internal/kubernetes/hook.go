package kubernetes

import (
	"context"
	"errors"
	"fmt"

	"github.com/dekorate/cli/internal/resource"
)

// ApplyHook applies a resource group to the cluster once manifests have
// been written. It is registered by generators when autoDeploy is set.
type ApplyHook struct {
	Group     string
	Resources []*resource.Resource
	Options   ApplyOptions

	// Connect returns the client to apply with.
	Connect func() (*Client, error)
}

// NewApplyHook returns a hook applying resources with a client built from
// opts.
func NewApplyHook(group string, resources []*resource.Resource, opts ClientOptions) *ApplyHook {
	return &ApplyHook{
		Group:     group,
		Resources: resources,
		Connect:   func() (*Client, error) { return NewClient(opts) },
	}
}

// Name returns "apply:<group>".
func (h *ApplyHook) Name() string {
	return "apply:" + h.Group
}

// Run applies every resource. It fails if any resource failed.
func (h *ApplyHook) Run(ctx context.Context) error {
	client, err := h.Connect()
	if err != nil {
		return err
	}

	result := Apply(ctx, client, h.Resources, h.Options)
	if len(result.Errors) == 0 {
		return nil
	}

	errs := make([]error, 0, len(result.Errors))
	for i := range result.Errors {
		errs = append(errs, &result.Errors[i])
	}
	return fmt.Errorf("applying %s: %d of %d resources failed: %w",
		h.Group, len(result.Errors), len(h.Resources), errors.Join(errs...))
}
