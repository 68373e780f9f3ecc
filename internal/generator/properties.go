package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dekorate/cli/internal/output"
)

// fieldDepth is the depth of schema fields in a property map:
// dekorate (0) . platform (1) . field (2). Keys below a field, such as
// label names, are kept verbatim.
const fieldDepth = 2

// Expand turns a property map with flat dotted keys, nested maps or a mix
// of both into nested maps down to field level. Key segments down to field
// level are converted from kebab-case to camelCase.
func Expand(props map[string]any) map[string]any {
	out := make(map[string]any)
	expandInto(out, props, 0)
	return out
}

func expandInto(dst, src map[string]any, depth int) {
	for key, value := range src {
		put(dst, strings.SplitN(key, ".", fieldDepth-depth+2), value, depth)
	}
}

func put(dst map[string]any, parts []string, value any, depth int) {
	key := parts[0]
	if depth <= fieldDepth {
		key = camelCase(key)
	}

	if len(parts) > 1 {
		put(child(dst, key), parts[1:], value, depth+1)
		return
	}

	m, isMap := asMap(value)
	switch {
	case isMap && depth < fieldDepth:
		expandInto(child(dst, key), m, depth+1)
	case isMap:
		existing := child(dst, key)
		for k, v := range m {
			existing[k] = v
		}
	default:
		dst[key] = value
	}
}

func child(m map[string]any, key string) map[string]any {
	if c, ok := m[key].(map[string]any); ok {
		return c
	}
	c := make(map[string]any)
	m[key] = c
	return c
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

// camelCase converts "auto-build-enabled" to "autoBuildEnabled". Keys
// without dashes are returned unchanged.
func camelCase(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Decode reads the section at prefix (e.g. "dekorate.openshift") of props
// into out and returns the keys the section sets. ok is false when props
// has no such section. Values are weakly typed, so "true" and "3" from a
// properties file decode into bool and int fields.
func Decode(props map[string]any, prefix string, out any) (keys Keys, ok bool, err error) {
	section, ok := lookup(Expand(props), prefix)
	if !ok {
		return nil, false, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		Metadata:         &md,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, false, err
	}
	if err := dec.Decode(section); err != nil {
		return nil, false, fmt.Errorf("decoding %s properties: %w", prefix, err)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		output.Debug("ignoring unknown properties", "prefix", prefix, "keys", md.Unused)
	}

	keys = make(Keys, len(section))
	for k := range section {
		keys[strings.ToLower(k)] = true
	}
	return keys, true, nil
}

func lookup(m map[string]any, path string) (map[string]any, bool) {
	cur := m
	for _, part := range strings.Split(path, ".") {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
