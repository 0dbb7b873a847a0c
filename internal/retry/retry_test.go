package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var errTransient = errors.New("transient")

func onlyTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		errs      []error
		wantCalls int
		wantErr   error
		wantWrap  bool
	}{
		{
			name:      "zero policy makes one attempt",
			errs:      []error{errTransient},
			wantCalls: 1,
			wantErr:   errTransient,
		},
		{
			name:      "recovers after transient failures",
			policy:    Policy{MaxRetries: 2, BackoffBase: time.Millisecond},
			errs:      []error{errTransient, errTransient, nil},
			wantCalls: 3,
		},
		{
			name:      "gives up after budget",
			policy:    Policy{MaxRetries: 1, BackoffBase: time.Millisecond},
			errs:      []error{errTransient, errTransient},
			wantCalls: 2,
			wantErr:   errTransient,
			wantWrap:  true,
		},
		{
			name:      "non-retryable stops immediately",
			policy:    Policy{MaxRetries: 3},
			errs:      []error{assert.AnError},
			wantCalls: 1,
			wantErr:   assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.policy, "test", onlyTransient, func(context.Context) error {
				err := tt.errs[calls]
				calls++
				return err
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantWrap {
				assert.Contains(t, err.Error(), "max retries exceeded")
			}
		})
	}
}

func TestDo_AttemptTimeout(t *testing.T) {
	calls := 0
	policy := Policy{MaxRetries: 1, Timeout: 5 * time.Millisecond, BackoffBase: time.Millisecond}
	retryDeadline := func(err error) bool { return errors.Is(err, context.DeadlineExceeded) }

	err := Do(context.Background(), policy, "test", retryDeadline, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Policy{MaxRetries: 3}, "test", onlyTransient, func(context.Context) error {
		t.Fatal("fn must not run on a canceled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_IsZero(t *testing.T) {
	assert.True(t, Policy{}.IsZero())
	assert.True(t, Policy{BackoffBase: time.Second}.IsZero())
	assert.False(t, Policy{MaxRetries: 1}.IsZero())
	assert.False(t, Policy{Timeout: time.Second}.IsZero())
}
