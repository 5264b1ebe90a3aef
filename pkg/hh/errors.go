package hh

import (
	"errors"
	"fmt"
	"time"
)

// Common errors returned by the client.
var (
	// ErrRetriesExhausted is returned when all attempts for a page are spent.
	// Callers treat it as the page-skip signal.
	ErrRetriesExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during a wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// APIError describes a failed page request attempt with its classification.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	// RetryAfter carries the server-requested wait for rate_limit errors.
	RetryAfter time.Duration
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hh %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("hh %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// isRateLimited reports whether err is a rate_limit classified APIError.
func isRateLimited(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Class == ErrorClassRateLimit {
		return apiErr, true
	}
	return nil, false
}
