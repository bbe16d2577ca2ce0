package gateway

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
)

// RetryPolicy bounds retries around gateway calls. Only transient
// network failures are retried; domain failures surface immediately.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	CallTimeout    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		CallTimeout:    30 * time.Second,
	}
}

// WithRetry runs fn under the policy's per-call timeout, retrying
// transient failures with exponential backoff. When attempts are
// exhausted the last error is wrapped and marked as network failure so
// callers can map it to a retries_exhausted transaction error.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, log *logger.Logger, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	if policy.InitialBackoff > 0 {
		bo.InitialInterval = policy.InitialBackoff
	}
	bo.Reset()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		callCtx := ctx
		var cancel context.CancelFunc
		if policy.CallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}
		result, err := fn(callCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return result, nil
		}
		if !ierr.IsRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		wait := bo.NextBackOff()
		if log != nil {
			log.Warnw("gateway call failed, retrying",
				"operation", op,
				"attempt", attempt,
				"backoff", wait.String(),
				"error", err)
		}
		select {
		case <-ctx.Done():
			return zero, ierr.WithError(ctx.Err()).
				WithHintf("Gateway %s canceled while waiting to retry", op).
				Mark(ierr.ErrNetwork)
		case <-time.After(wait):
		}
	}

	return zero, ierr.WithError(lastErr).
		WithHintf("Gateway %s failed after %d attempts", op, attempts).
		WithReportableDetails(map[string]interface{}{"operation": op, "attempts": attempts}).
		Mark(ierr.ErrNetwork)
}
