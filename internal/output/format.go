package output

import "strings"

// Format specifies the manifest output format.
type Format string

const (
	// FormatYAML outputs YAML documents.
	FormatYAML Format = "yaml"

	// FormatJSON outputs a JSON array.
	FormatJSON Format = "json"

	// FormatTable outputs a human-readable table.
	FormatTable Format = "table"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// Ext returns the manifest file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".yml"
}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	default:
		return Format(s), false
	}
}

// ValidManifestFormats returns formats accepted by manifest-writing commands.
func ValidManifestFormats() []string {
	return []string{"yaml", "json"}
}
