//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrValidation, ErrConnectivity)
	assert.NotEqual(t, ErrValidation, ErrNotFound)
	assert.NotEqual(t, ErrNotFound, ErrNoBuildService)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "invalid value",
		Location: "/work/app/application.properties",
		Field:    "dekorate.openshift.replicas",
		Context:  map[string]string{"Generator": "openshift"},
		Hint:     "Use a positive integer",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: validation failed")
	assert.Contains(t, output, "Location: /work/app/application.properties")
	assert.Contains(t, output, "Field: dekorate.openshift.replicas")
	assert.Contains(t, output, "Generator: openshift")
	assert.Contains(t, output, "invalid value")
	assert.Contains(t, output, "Hint: Use a positive integer")
}

func TestDetailErrorContextIsSorted(t *testing.T) {
	detail := &DetailError{
		Type:    "t",
		Message: "m",
		Context: map[string]string{"s2i": "b", "docker": "a"},
	}

	output := detail.Error()
	assert.Less(t, strings.Index(output, "docker"), strings.Index(output, "s2i"))
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid value", "markers.yaml", "replicas", "Use a positive integer")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "replicas", detail.Field)
}

func TestNewNoBuildServiceError(t *testing.T) {
	err := NewNoBuildServiceError("/work/app", map[string]string{
		"docker": "Dockerfile missing",
	})

	assert.True(t, errors.Is(err, ErrNoBuildService))
	assert.Contains(t, err.Error(), "no applicable build service found")
	assert.Contains(t, err.Error(), "docker: Dockerfile missing")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "reading markers")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "reading markers")
}
