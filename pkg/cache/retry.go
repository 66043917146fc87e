package cache

import (
	"context"
	"errors"
	"time"
)

// Default backoff for connecting to a cache backend.
const (
	DefaultConnectAttempts = 3
	DefaultConnectDelay    = 500 * time.Millisecond
)

// TransientError marks a failure worth retrying, such as a backend that
// did not answer a ping. [NewRedisCache] and [NewMongoCache] wrap their
// connection checks with it.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is marked as a [TransientError].
func IsTransient(err error) bool {
	return errors.As(err, new(*TransientError))
}

// Retry runs fn up to attempts times, doubling delay after each failure.
// Only transient errors are retried; any other error is returned at once.
// It returns the last error if every attempt fails, or ctx.Err() if ctx
// ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsTransient(err) {
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
