package output

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures RunWithSpinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title   string
	timeout time.Duration
	tty     func() bool
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// WithTimeout bounds the action. Zero means no bound.
func WithTimeout(timeout time.Duration) SpinnerOption {
	return func(c *spinnerConfig) {
		c.timeout = timeout
	}
}

// RunWithSpinner runs action and, when stderr is a terminal, shows a
// spinner until it returns. The context passed to action carries the
// timeout. Off a terminal the action runs inline and its duration is
// logged at debug level.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working...", tty: IsTTY}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		Debug("finished", "task", cfg.title, "elapsed", time.Since(start).Round(time.Millisecond))
	}()

	if !cfg.tty() {
		return action(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action(ctx)
	}()

	var result error
	spinnerErr := spinner.New().Title(cfg.title).Action(func() {
		select {
		case result = <-errCh:
		case <-ctx.Done():
			result = ctx.Err()
		}
	}).Run()
	if spinnerErr != nil {
		return fmt.Errorf("spinner: %w", spinnerErr)
	}
	return result
}
