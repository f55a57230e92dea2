package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend.
var ErrNetwork = errors.New("network error")

// RetryableError marks a transient failure that RetryWithBackoff may retry.
type RetryableError struct{ Err error }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

var (
	retryAttempts = 3
	// retryDelay doubles after every failed attempt.
	retryDelay = 100 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or the attempts run out. Cancelling ctx stops the wait between
// attempts and returns ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	err := fn()
	for attempt := 1; attempt < retryAttempts && IsRetryable(err); attempt++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
