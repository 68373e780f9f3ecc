package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekorate/cli/internal/resource"
)

// SplitOptions controls split file output.
type SplitOptions struct {
	// OutDir is the directory for split output. Each group gets a
	// subdirectory.
	OutDir string
	// Format specifies output format: "yaml" or "json"
	Format Format
}

// WriteSplitManifests writes each resource to a separate file under
// <OutDir>/<group>/<lowercase-kind>-<name><ext>.
func WriteSplitManifests(groups *resource.Groups, opts SplitOptions) error {
	for _, group := range groups.Names() {
		dir := filepath.Join(opts.OutDir, group)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		usedNames := make(map[string]int)
		items := groups.Get(group)
		resource.Sort(items)
		for _, res := range items {
			path := filepath.Join(dir, buildFilename(res, opts.Format, usedNames))
			if err := writeResourceFile(res, path, opts.Format); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			Debug("wrote resource file",
				"kind", res.GetKind(),
				"name", res.GetName(),
				"file", path,
			)
		}
	}

	return nil
}

// buildFilename creates a collision-free filename for a resource.
func buildFilename(res *resource.Resource, format Format, usedNames map[string]int) string {
	ext := format.Ext()
	baseName := strings.ToLower(res.GetKind()) + "-" + sanitizeName(res.GetName())

	count, exists := usedNames[baseName]
	if exists {
		usedNames[baseName] = count + 1
		return fmt.Sprintf("%s-%d%s", baseName, count+1, ext)
	}

	usedNames[baseName] = 1
	return baseName + ext
}

// sanitizeName makes a name safe for use in filenames.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
	)
	return replacer.Replace(name)
}

func writeResourceFile(res *resource.Resource, destPath string, format Format) error {
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeResource(res.GetObject(), format, f)
}
