package hh

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name: "error with wrapped error",
			apiError: &APIError{
				StatusCode: 0,
				Class:      ErrorClassNetwork,
				Message:    "request failed",
				Err:        errors.New("connection refused"),
			},
			expected: "hh network error (status 0): request failed: connection refused",
		},
		{
			name: "error without wrapped error",
			apiError: &APIError{
				StatusCode: 500,
				Class:      ErrorClassHTTP,
				Message:    "500 Internal Server Error",
				Err:        nil,
			},
			expected: "hh http error (status 500): 500 Internal Server Error",
		},
		{
			name: "rate limit error",
			apiError: &APIError{
				StatusCode: 429,
				Class:      ErrorClassRateLimit,
				RetryAfter: 5 * time.Second,
				Message:    "429 Too Many Requests",
				Err:        nil,
			},
			expected: "hh rate_limit error (status 429): 429 Too Many Requests",
		},
		{
			name: "decode error",
			apiError: &APIError{
				StatusCode: 200,
				Class:      ErrorClassDecode,
				Message:    "decode response",
				Err:        errors.New("unexpected end of JSON input"),
			},
			expected: "hh decode error (status 200): decode response: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.apiError.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	wrappedErr := errors.New("wrapped error")
	apiError := &APIError{
		StatusCode: 0,
		Class:      ErrorClassNetwork,
		Message:    "request failed",
		Err:        wrappedErr,
	}

	unwrapped := apiError.Unwrap()
	if unwrapped != wrappedErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, wrappedErr)
	}

	// Test errors.Is
	if !errors.Is(apiError, wrappedErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestAPIError_UnwrapNil(t *testing.T) {
	apiError := &APIError{
		StatusCode: 404,
		Class:      ErrorClassHTTP,
		Message:    "not found",
		Err:        nil,
	}

	unwrapped := apiError.Unwrap()
	if unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestIsRateLimited(t *testing.T) {
	rateLimitErr := &APIError{
		StatusCode: 429,
		Class:      ErrorClassRateLimit,
		RetryAfter: 7 * time.Second,
		Message:    "429 Too Many Requests",
	}

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "rate limit error",
			err:      rateLimitErr,
			expected: true,
		},
		{
			name:     "wrapped rate limit error",
			err:      fmt.Errorf("attempt failed: %w", rateLimitErr),
			expected: true,
		},
		{
			name:     "http error",
			err:      &APIError{StatusCode: 500, Class: ErrorClassHTTP, Message: "500"},
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := isRateLimited(tt.err)
			if ok != tt.expected {
				t.Errorf("isRateLimited(%v) = %v, want %v", tt.err, ok, tt.expected)
			}
			if ok && apiErr.RetryAfter != 7*time.Second {
				t.Errorf("RetryAfter = %v, want 7s", apiErr.RetryAfter)
			}
		})
	}
}
