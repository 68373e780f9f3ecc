package cmd

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	oerrors "github.com/dekorate/cli/internal/errors"
	k8sgen "github.com/dekorate/cli/internal/generator/kubernetes"
	"github.com/dekorate/cli/internal/generator/openshift"
)

// Markers holds pre-scanned source markers, one list per platform. The
// file format is YAML or JSON:
//
//	openshift:
//	  - name: shop
//	    autoBuildEnabled: true
//	kubernetes:
//	  - replicas: 2
type Markers struct {
	OpenShift  []openshift.Application `json:"openshift,omitempty"`
	Kubernetes []k8sgen.Application    `json:"kubernetes,omitempty"`
}

// LoadMarkers reads a marker file. Unknown fields are rejected.
func LoadMarkers(path string) (*Markers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("marker file does not exist", path, "")
		}
		return nil, fmt.Errorf("reading marker file: %w", err)
	}

	var m Markers
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path, "", "Marker files hold openshift and kubernetes lists of application settings.")
	}
	return &m, nil
}
