package kubernetes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"

	"github.com/dekorate/cli/internal/output"
	"github.com/dekorate/cli/internal/resource"
)

// ApplyOptions configures an apply operation.
type ApplyOptions struct {
	// DryRun performs a server-side dry run without persisting changes.
	DryRun bool
}

// ApplyResult is the outcome of an apply.
type ApplyResult struct {
	// Applied is the number of resources successfully applied.
	Applied int

	// Errors holds per-resource failures. Apply continues past them.
	Errors []ResourceError
}

// ResourceError captures an error for a specific resource.
type ResourceError struct {
	Kind      string
	Name      string
	Namespace string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s/%s in %s: %v", e.Kind, e.Name, e.Namespace, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Kind, e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Apply server-side applies resources in weight order. Resources without
// a namespace are applied to the client's namespace. The input slice and
// its objects are not modified.
func Apply(ctx context.Context, client *Client, resources []*resource.Resource, opts ApplyOptions) *ApplyResult {
	result := &ApplyResult{}

	sorted := make([]*resource.Resource, len(resources))
	copy(sorted, resources)
	resource.Sort(sorted)

	for _, res := range sorted {
		obj := res.GetObject().DeepCopy()
		if obj.GetNamespace() == "" && client.Namespace != "" {
			obj.SetNamespace(client.Namespace)
		}
		injectLabels(obj, res.GetGroup())

		log := output.GeneratorLogger(res.GetGroup())
		status, err := applyObject(ctx, client, obj, opts)
		if err != nil {
			log.Warn(fmt.Sprintf("applying %s/%s: %v", obj.GetKind(), obj.GetName(), err))
			result.Errors = append(result.Errors, ResourceError{
				Kind:      obj.GetKind(),
				Name:      obj.GetName(),
				Namespace: obj.GetNamespace(),
				Err:       err,
			})
			continue
		}

		result.Applied++
		log.Info(output.FormatResourceLine(obj.GetKind(), obj.GetNamespace(), obj.GetName(), status))
	}

	return result
}

func injectLabels(obj *unstructured.Unstructured, group string) {
	labels := obj.GetLabels()
	if labels == nil {
		labels = make(map[string]string)
	}
	labels[LabelManagedBy] = labelManagedByValue
	if group != "" {
		labels[LabelGroup] = group
	}
	obj.SetLabels(labels)
}

// applyObject server-side applies one object and reports whether it was
// created, configured or unchanged.
func applyObject(ctx context.Context, client *Client, obj *unstructured.Unstructured, opts ApplyOptions) (string, error) {
	rc := client.ResourceClient(GVRFromObject(obj), obj.GetNamespace())

	// A failed GET (NotFound or otherwise) reports the apply as "created".
	var existingVersion string
	if existing, err := rc.Get(ctx, obj.GetName(), metav1.GetOptions{}); err == nil {
		existingVersion = existing.GetResourceVersion()
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshaling resource: %w", err)
	}

	patchOpts := metav1.PatchOptions{
		FieldManager: fieldManagerName,
		Force:        boolPtr(true),
	}
	if opts.DryRun {
		patchOpts.DryRun = []string{metav1.DryRunAll}
	}

	result, err := rc.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, patchOpts)
	if err != nil {
		return "", err
	}

	if existingVersion == "" {
		return output.StatusCreated, nil
	}
	if result != nil && result.GetResourceVersion() == existingVersion {
		return output.StatusUnchanged, nil
	}
	return output.StatusConfigured, nil
}

// ResourceClient returns a namespaced or cluster-scoped client for gvr.
func (c *Client) ResourceClient(gvr schema.GroupVersionResource, namespace string) dynamic.ResourceInterface {
	if namespace != "" {
		return c.Dynamic.Resource(gvr).Namespace(namespace)
	}
	return c.Dynamic.Resource(gvr)
}

// GVRFromObject derives the GroupVersionResource of an object.
func GVRFromObject(obj *unstructured.Unstructured) schema.GroupVersionResource {
	gvk := obj.GroupVersionKind()
	return schema.GroupVersionResource{
		Group:    gvk.Group,
		Version:  gvk.Version,
		Resource: kindToResource(gvk.Kind),
	}
}

// knownKindResources maps kinds whose plural the heuristic gets wrong or
// that dekorate emits.
var knownKindResources = map[string]string{
	"Namespace":             "namespaces",
	"ServiceAccount":        "serviceaccounts",
	"Secret":                "secrets",
	"ConfigMap":             "configmaps",
	"PersistentVolumeClaim": "persistentvolumeclaims",
	"Service":               "services",
	"Endpoints":             "endpoints",
	"Deployment":            "deployments",
	"StatefulSet":           "statefulsets",
	"Ingress":               "ingresses",
	"NetworkPolicy":         "networkpolicies",
	"DeploymentConfig":      "deploymentconfigs",
	"BuildConfig":           "buildconfigs",
	"ImageStream":           "imagestreams",
	"Route":                 "routes",
}

func kindToResource(kind string) string {
	if resource, ok := knownKindResources[kind]; ok {
		return resource
	}
	return heuristicPluralize(kind)
}

// heuristicPluralize applies simple English pluralization rules.
func heuristicPluralize(kind string) string {
	lower := strings.ToLower(kind)
	switch {
	case strings.HasSuffix(lower, "ss") || strings.HasSuffix(lower, "sh") || strings.HasSuffix(lower, "ch") || strings.HasSuffix(lower, "x"):
		return lower + "es"
	case strings.HasSuffix(lower, "s"):
		return lower
	case len(lower) > 1 && strings.HasSuffix(lower, "y") && !isVowel(lower[len(lower)-2]):
		return lower[:len(lower)-1] + "ies"
	default:
		return lower + "s"
	}
}

func isVowel(b byte) bool {
	return b == 'a' || b == 'e' || b == 'i' || b == 'o' || b == 'u'
}

func boolPtr(b bool) *bool {
	return &b
}
