// Package resource holds the deployment resource objects produced by
// handlers during a generation session, grouped by platform.
package resource

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Resource is a single generated platform resource.
type Resource struct {
	Object *unstructured.Unstructured

	// Group is the resource group the handler wrote the object into.
	Group string

	// Handler is the name of the handler that produced the object.
	Handler string
}

// New wraps a generated object.
func New(group, handler string, obj map[string]any) *Resource {
	return &Resource{
		Object:  &unstructured.Unstructured{Object: obj},
		Group:   group,
		Handler: handler,
	}
}

// GetObject returns the underlying unstructured object.
func (r *Resource) GetObject() *unstructured.Unstructured {
	return r.Object
}

// GetGVK returns the GroupVersionKind.
func (r *Resource) GetGVK() schema.GroupVersionKind {
	return r.Object.GroupVersionKind()
}

// GetKind returns the resource kind (e.g., "DeploymentConfig").
func (r *Resource) GetKind() string {
	return r.Object.GetKind()
}

// GetName returns the resource name from metadata.
func (r *Resource) GetName() string {
	return r.Object.GetName()
}

// GetNamespace returns the resource namespace from metadata.
func (r *Resource) GetNamespace() string {
	return r.Object.GetNamespace()
}

// GetGroup returns the resource group name.
func (r *Resource) GetGroup() string {
	return r.Group
}

// GetHandler returns the producing handler name.
func (r *Resource) GetHandler() string {
	return r.Handler
}
