package resource

import (
	"sort"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Apply weights. Lower weights are written and applied first.
const (
	WeightNamespace      = 0
	WeightServiceAccount = 10
	WeightSecret         = 15
	WeightConfigMap      = 15
	WeightImageStream    = 30
	WeightBuildConfig    = 40
	WeightService        = 50
	WeightWorkload       = 100
	WeightIngress        = 150
	WeightRoute          = 150
	WeightDefault        = 1000
)

var gvkWeights = map[schema.GroupVersionKind]int{
	{Group: "image.openshift.io", Version: "v1", Kind: "ImageStream"}:     WeightImageStream,
	{Group: "build.openshift.io", Version: "v1", Kind: "BuildConfig"}:     WeightBuildConfig,
	{Group: "apps.openshift.io", Version: "v1", Kind: "DeploymentConfig"}: WeightWorkload,
	{Group: "route.openshift.io", Version: "v1", Kind: "Route"}:           WeightRoute,
	{Group: "apps", Version: "v1", Kind: "Deployment"}:                    WeightWorkload,
	{Group: "networking.k8s.io", Version: "v1", Kind: "Ingress"}:          WeightIngress,
}

var kindWeights = map[string]int{
	"Namespace":      WeightNamespace,
	"ServiceAccount": WeightServiceAccount,
	"Secret":         WeightSecret,
	"ConfigMap":      WeightConfigMap,
	"Service":        WeightService,
	"StatefulSet":    WeightWorkload,
	"DaemonSet":      WeightWorkload,
}

// Weight returns the apply weight for a GVK, falling back to a kind-only
// match and then to WeightDefault.
func Weight(gvk schema.GroupVersionKind) int {
	if w, ok := gvkWeights[gvk]; ok {
		return w
	}
	if w, ok := kindWeights[gvk.Kind]; ok {
		return w
	}
	return WeightDefault
}

// Sort orders resources by weight, then namespace, then name. The sort is
// stable so equal resources keep handler emission order.
func Sort(resources []*Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		wi, wj := Weight(resources[i].GetGVK()), Weight(resources[j].GetGVK())
		if wi != wj {
			return wi < wj
		}
		if resources[i].GetNamespace() != resources[j].GetNamespace() {
			return resources[i].GetNamespace() < resources[j].GetNamespace()
		}
		return resources[i].GetName() < resources[j].GetName()
	})
}
