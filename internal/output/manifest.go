package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/dekorate/cli/internal/resource"
)

// ManifestOptions controls manifest output formatting.
type ManifestOptions struct {
	// Format specifies output format: "yaml" or "json"
	Format Format
	// Writer is the output destination
	Writer io.Writer
}

// WriteManifests writes resources to the writer in the specified format.
// Resources are sorted by weight for consistent output; the input slice is
// not reordered.
func WriteManifests(resources []*resource.Resource, opts ManifestOptions) error {
	if len(resources) == 0 {
		return nil
	}

	sorted := make([]*resource.Resource, len(resources))
	copy(sorted, resources)
	resource.Sort(sorted)

	switch opts.Format {
	case FormatJSON:
		return writeJSON(sorted, opts.Writer)
	case FormatTable:
		return fmt.Errorf("format %s not supported for manifest output", opts.Format)
	}
	return writeYAML(sorted, opts.Writer)
}

// WriteGroups writes one manifest file per resource group into dir, named
// <group><ext> (e.g. openshift.yml). It returns the written paths in group
// order.
func WriteGroups(groups *resource.Groups, dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for _, name := range groups.Names() {
		path := filepath.Join(dir, name+format.Ext())
		if err := writeManifestFile(path, groups.Get(name), format); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		Debug("wrote resource group", "group", name, "file", path)
		written = append(written, path)
	}
	return written, nil
}

func writeManifestFile(path string, resources []*resource.Resource, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteManifests(resources, ManifestOptions{Format: format, Writer: f})
}

// writeYAML writes resources as YAML documents separated by ---.
func writeYAML(resources []*resource.Resource, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	for _, res := range resources {
		if err := encoder.Encode(res.GetObject().Object); err != nil {
			return fmt.Errorf("encoding resource %s/%s: %w",
				res.GetKind(), res.GetName(), err)
		}
	}

	return encoder.Close()
}

// writeJSON writes resources as a JSON array.
func writeJSON(resources []*resource.Resource, w io.Writer) error {
	objects := make([]map[string]any, len(resources))
	for i, res := range resources {
		objects[i] = res.GetObject().Object
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(objects); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// writeResource writes a single resource to the writer.
func writeResource(obj *unstructured.Unstructured, format Format, w io.Writer) error {
	if format == FormatJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(obj.Object)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	err := encoder.Encode(obj.Object)
	if closeErr := encoder.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
