package registry

import (
	"context"
	"errors"
	"time"
)

// retryableError wraps an error to indicate the attempt may be repeated.
// Only transient transport failures are wrapped; validation, parse, and
// size-limit errors surface immediately.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*retryableError))
}

// retry executes fn up to attempts times with exponential backoff starting
// at delay. Only errors wrapped via retryable trigger another attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// while backing off.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
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
