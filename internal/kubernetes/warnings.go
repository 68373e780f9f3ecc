package kubernetes

import (
	"fmt"

	"github.com/dekorate/cli/internal/output"
)

// warningLogger is the logging surface the warning handler needs.
type warningLogger interface {
	Warn(msg string, keyvals ...interface{})
	Debug(msg string, keyvals ...interface{})
}

type packageLogger struct{}

func (packageLogger) Warn(msg string, keyvals ...interface{})  { output.Warn(msg, keyvals...) }
func (packageLogger) Debug(msg string, keyvals ...interface{}) { output.Debug(msg, keyvals...) }

// warningHandler implements rest.WarningHandler, routing API server
// warnings through charmbracelet/log instead of klog.
type warningHandler struct {
	// level is "warn" (default), "debug" or "suppress".
	level  string
	logger warningLogger
}

// HandleWarningHeader implements rest.WarningHandler.
func (h *warningHandler) HandleWarningHeader(_ int, _ string, text string) {
	logger := h.logger
	if logger == nil {
		logger = packageLogger{}
	}
	msg := fmt.Sprintf("k8s API warning: %s", text)

	switch h.level {
	case "suppress":
	case "debug":
		logger.Debug(msg)
	default:
		logger.Warn(msg)
	}
}
