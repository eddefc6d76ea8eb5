package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Callers wrap network
// failures, 5xx responses, and 429s with it so [Retry] attempts the
// operation again; webhook delivery in pkg/feedback is the main user.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling the delay between tries.
// Only [RetryableError] values trigger another attempt; any other error is
// returned immediately. After the final attempt the last error is returned,
// or ctx.Err() when the context ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff calls [Retry] with the defaults used for webhook
// delivery: 3 attempts starting at 1 second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
