package analysis

import (
	"context"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
)

// RetryConfig bounds the per-provider attempt budget. Attempts are spaced by
// a fixed delay; MaxAttempts counts the initial attempt.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryHandler executes retryable operations against a single provider.
type RetryHandler struct {
	cfg RetryConfig
}

// NewRetryHandler constructs a handler with sane defaults.
func NewRetryHandler(cfg RetryConfig) *RetryHandler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Delay <= 0 {
		cfg.Delay = defaultRetryDelay
	}
	return &RetryHandler{cfg: cfg}
}

// MaxAttempts returns the configured attempt budget.
func (r *RetryHandler) MaxAttempts() int {
	return r.cfg.MaxAttempts
}

// Do runs fn until it succeeds, exhausts the attempt budget, or hits a
// non-retryable error. The last error is returned on failure.
func (r *RetryHandler) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == r.cfg.MaxAttempts {
			return err
		}

		select {
		case <-time.After(r.cfg.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
