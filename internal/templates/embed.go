// Package templates provides the embedded project scaffolds written by
// dekorate init.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed kubernetes/* openshift/* docker/*
var scaffoldFS embed.FS

// TemplateName identifies a scaffold.
type TemplateName string

const (
	// Kubernetes scaffolds a dekorate.kubernetes property section.
	Kubernetes TemplateName = "kubernetes"

	// OpenShift scaffolds a dekorate.openshift property section using the
	// s2i builder.
	OpenShift TemplateName = "openshift"

	// Docker scaffolds a Dockerfile and a section with autoBuild enabled.
	Docker TemplateName = "docker"
)

// Template describes a scaffold.
type Template struct {
	Name        TemplateName
	Description string
}

var registry = []Template{
	{Name: Kubernetes, Description: "Deployment and Service from dekorate.kubernetes properties"},
	{Name: OpenShift, Description: "DeploymentConfig, Route and s2i BuildConfig from dekorate.openshift properties"},
	{Name: Docker, Description: "Dockerfile plus dekorate.kubernetes properties with docker image builds"},
}

// List returns every scaffold.
func List() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// ValidTemplates returns the scaffold names.
func ValidTemplates() []string {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = string(t.Name)
	}
	return names
}

// IsValidTemplate checks if a template name is valid.
func IsValidTemplate(name string) bool {
	for _, t := range registry {
		if string(t.Name) == name {
			return true
		}
	}
	return false
}

// ListTemplateFiles returns the files a scaffold writes, sorted.
func ListTemplateFiles(name TemplateName) ([]string, error) {
	if !IsValidTemplate(string(name)) {
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	var files []string
	err := fs.WalkDir(scaffoldFS, string(name), func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, strings.TrimSuffix(strings.TrimPrefix(p, string(name)+"/"), ".tmpl"))
		return nil
	})
	sort.Strings(files)
	return files, err
}

func readTemplate(name TemplateName, file string) ([]byte, error) {
	return fs.ReadFile(scaffoldFS, path.Join(string(name), file+".tmpl"))
}
