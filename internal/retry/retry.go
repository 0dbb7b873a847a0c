// Package retry runs calls to external services under a bounded retry policy.
package retry

import (
	"context"
	"fmt"
	"time"

	"ainotes/internal/contextutil"
)

// Policy controls how a call is retried.
// The zero value makes exactly one attempt with no deadline of its own.
type Policy struct {
	MaxRetries  int
	Timeout     time.Duration
	BackoffBase time.Duration
}

// IsZero reports whether p neither retries nor bounds an attempt.
func (p Policy) IsZero() bool {
	return p.MaxRetries <= 0 && p.Timeout <= 0
}

// Do runs fn until it succeeds, fails with an error retryable rejects, or the
// retry budget is spent. Each attempt gets its own Timeout when set and the
// delay doubles after every failed attempt.
func Do(ctx context.Context, p Policy, op string, retryable func(error) bool, fn func(ctx context.Context) error) error {
	delay := p.BackoffBase
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = attemptOnce(ctx, p.Timeout, fn)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}

		if attempt < p.MaxRetries {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "retrying call",
				"op", op, "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	if p.MaxRetries <= 0 {
		return lastErr
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func attemptOnce(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
