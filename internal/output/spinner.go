package output

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title   string
	timeout time.Duration
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// WithTimeout bounds the action's context.
func WithTimeout(timeout time.Duration) SpinnerOption {
	return func(c *spinnerConfig) {
		c.timeout = timeout
	}
}

// RunWithSpinner executes action behind a spinner and returns its error.
// Without a TTY the action runs directly. The action always finishes before
// RunWithSpinner returns; interrupting the spinner cancels its context.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	actionCtx := ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		actionCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if !IsTTY() {
		return action(actionCtx)
	}

	return runJoined(actionCtx, action, func(ctx context.Context) error {
		return spinner.New().Title(cfg.title).Context(ctx).Run()
	})
}

// runJoined runs action in its own goroutine while show renders progress
// until the context it is given ends. show's context ends when action
// returns. If show fails first, action is cancelled and awaited.
func runJoined(ctx context.Context, action, show func(context.Context) error) error {
	actionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	showCtx, stop := context.WithCancel(ctx)
	defer stop()

	var actionErr error
	done := make(chan struct{})
	go func() {
		// done closes before show is stopped.
		defer stop()
		defer close(done)
		actionErr = action(actionCtx)
	}()

	showErr := show(showCtx)
	interrupted := false
	if showErr != nil {
		select {
		case <-done:
		default:
			interrupted = true
			cancel()
		}
	}
	<-done

	if actionErr != nil {
		return actionErr
	}
	if interrupted {
		return fmt.Errorf("spinner error: %w", showErr)
	}
	return nil
}
