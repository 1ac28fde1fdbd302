// Package resilience provides the bounded retry/backoff policy applied
// around source search calls, and the error types that drive it.
package resilience

import (
	"errors"
	"time"
)

// RateLimitError tags an upstream throttling response (HTTP 429 or an
// equivalent signal). It is the only error class the search retry policy
// treats as retryable.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration // optional upstream hint, zero if absent
}

func (e *RateLimitError) Error() string {
	return e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError wraps err as a rate-limit error.
func NewRateLimitError(err error) *RateLimitError {
	return &RateLimitError{Err: err}
}

// IsRateLimited reports whether the error chain contains a RateLimitError.
func IsRateLimited(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
