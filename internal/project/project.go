// Package project describes the project a generation session runs for: its
// root directory and build metadata.
package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	oerrors "github.com/dekorate/cli/internal/errors"
)

// DefaultVersion is used when no version is configured for the project.
const DefaultVersion = "latest"

// BuildInfo is the project build metadata.
type BuildInfo struct {
	// Name is the logical application name.
	Name string
	// Group is the image group (e.g. the repository owner).
	Group string
	// Version is the application version.
	Version string
	// Module is the Go module path, when the project has a go.mod.
	Module string
	// BuildTool names the detected build tool ("go" or "").
	BuildTool string
}

// Project is the project a session generates resources for.
type Project struct {
	// Root is the absolute project root directory.
	Root string
	// BuildInfo is the detected build metadata.
	BuildInfo BuildInfo
}

// Options overrides detected build metadata.
type Options struct {
	Name    string
	Group   string
	Version string
}

// Load reads project metadata from root. Build info is derived from go.mod
// when present (name = last module path element, group = the element
// before it) and falls back to the directory name. Non-empty Options fields
// win over detected values.
func Load(root string, opts Options) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("project root does not exist", abs, "Pass an existing project directory.")
		}
		return nil, fmt.Errorf("reading project root: %w", err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewValidationError("project root is not a directory", abs, "", "")
	}

	bi := BuildInfo{Name: sanitize(filepath.Base(abs)), Version: DefaultVersion}

	data, err := os.ReadFile(filepath.Join(abs, "go.mod"))
	switch {
	case err == nil:
		if modPath := modfile.ModulePath(data); modPath != "" {
			bi.Module = modPath
			bi.BuildTool = "go"
			bi.Name = sanitize(path.Base(modPath))
			if dir := path.Dir(modPath); dir != "." {
				bi.Group = sanitize(path.Base(dir))
			}
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}

	if opts.Name != "" {
		bi.Name = opts.Name
	}
	if opts.Group != "" {
		bi.Group = opts.Group
	}
	if opts.Version != "" {
		bi.Version = opts.Version
	}

	return &Project{Root: abs, BuildInfo: bi}, nil
}

// New returns a project for root with the given build info, without
// touching the filesystem.
func New(root string, bi BuildInfo) *Project {
	return &Project{Root: root, BuildInfo: bi}
}

// Resolve joins a project-relative path onto the root.
func (p *Project) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

// sanitize lowercases a name and maps characters that are invalid in
// resource names to '-'.
func sanitize(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '-'
		}
	}, name)
}
