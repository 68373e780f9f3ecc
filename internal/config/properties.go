package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/dekorate/cli/internal/output"
)

// propertyFileNames are read from each property directory, in this order.
var propertyFileNames = []string{
	"application.properties",
	"application.yaml",
	"application.yml",
}

// propertyDirs are the directories, relative to the project root, that may
// hold property files. Later directories override earlier ones.
var propertyDirs = []string{".", "resources"}

// ProjectPropertyFiles returns the property files present in root, in the
// order they are merged.
func ProjectPropertyFiles(root string) []string {
	var files []string
	for _, dir := range propertyDirs {
		for _, name := range propertyFileNames {
			path := filepath.Join(root, dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				files = append(files, path)
			}
		}
	}
	return files
}

// LoadProperties reads files into one flat property map with dotted keys.
// Later files override earlier ones key by key. Files ending in .yaml or
// .yml are read as YAML, everything else as Java properties.
func LoadProperties(files ...string) (map[string]any, error) {
	props := make(map[string]any)
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening property file: %w", err)
		}

		var loaded map[string]any
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			loaded, err = readYAMLProperties(f)
		default:
			loaded, err = readJavaProperties(f)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		for k, v := range loaded {
			props[k] = v
		}
		output.Debug("loaded property file", "path", path, "keys", len(loaded))
	}
	return props, nil
}

func readYAMLProperties(r io.Reader) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	flat := make(map[string]any)
	if len(doc.Content) == 0 {
		return flat, nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("property document must be a mapping, got %s", root.Tag)
	}
	flatten("", root, flat)
	return flat, nil
}

// flatten writes nested mappings as dotted keys. Sequences and scalars are
// leaves.
func flatten(prefix string, m *yaml.Node, out map[string]any) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		value := resolveAlias(m.Content[i+1])
		if value.Kind == yaml.MappingNode {
			flatten(key, value, out)
			continue
		}
		out[key] = nodeValue(value)
	}
}

// nodeValue converts a YAML node keeping scalars as their source text, so
// "1.10" stays "1.10". Typed fields are decoded later with weak typing.
func nodeValue(n *yaml.Node) any {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, item := range n.Content {
			items[i] = nodeValue(item)
		}
		return items
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return m
	default:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// readJavaProperties reads the Java properties format. ${...} references
// are left as written.
func readJavaProperties(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	props := make(map[string]any, p.Len())
	for _, key := range p.Keys() {
		props[key], _ = p.Get(key)
	}
	return props, nil
}
