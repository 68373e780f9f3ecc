package config

import (
	"fmt"
	"regexp"
	"strings"

	oerrors "github.com/dekorate/cli/internal/errors"
)

// namespaceRegex validates Kubernetes namespace names per RFC 1123.
var namespaceRegex = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

var apiWarningLevels = []string{"warn", "debug", "suppress"}

// Validate checks field formats. Empty fields are valid.
func Validate(cfg *Config) error {
	if err := ValidateNamespace(cfg.Namespace); err != nil {
		return err
	}

	if level := cfg.Log.Kubernetes.APIWarnings; level != "" {
		valid := false
		for _, l := range apiWarningLevels {
			if level == l {
				valid = true
				break
			}
		}
		if !valid {
			return oerrors.NewValidationError(
				fmt.Sprintf("invalid api warning level %q", level),
				"config", "log.kubernetes.apiWarnings",
				"Valid levels: "+strings.Join(apiWarningLevels, ", "))
		}
	}
	return nil
}

// ValidateNamespace checks that namespace is a valid Kubernetes namespace
// name. Empty is valid.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return nil
	}
	if len(namespace) > 63 {
		return oerrors.NewValidationError("namespace must be at most 63 characters",
			"config", "namespace", "")
	}
	if !namespaceRegex.MatchString(namespace) {
		return oerrors.NewValidationError(
			fmt.Sprintf("invalid namespace %q", namespace),
			"config", "namespace",
			"Use lowercase alphanumeric characters and hyphens.")
	}
	return nil
}
