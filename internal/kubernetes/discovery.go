package kubernetes

import (
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ServesGroupVersion reports whether the cluster serves groupVersion,
// e.g. "build.openshift.io/v1".
func (c *Client) ServesGroupVersion(groupVersion string) (bool, error) {
	list, err := c.Clientset.Discovery().ServerResourcesForGroupVersion(groupVersion)
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("discovering %s: %w", groupVersion, err)
	}
	return list != nil && len(list.APIResources) > 0, nil
}
