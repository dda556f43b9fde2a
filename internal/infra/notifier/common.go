package notifier

import (
	"errors"
	"fmt"
	"time"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const requestIDKey contextKey = "request_id"

// RateLimitError represents a 429 response from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "rate limit exceeded"
	}
	return fmt.Sprintf("%s (retry after %v)", msg, e.RetryAfter)
}

// ClientError represents a 4xx response from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError represents a 5xx response from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

// is429Error extracts a RateLimitError when the failure was a 429.
func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	ok := errors.As(err, &rateLimitErr)
	return rateLimitErr, ok
}

// isRetryableError reports whether a webhook failure is worth retrying.
// Server errors and network errors are; client errors other than 429 are
// not.
func isRetryableError(err error) bool {
	if _, ok := is429Error(err); ok {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	// Server errors, network errors and everything else are assumed
	// transient.
	return true
}
