package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches an HTTPError with status 404.
	ErrNotFound = errors.New("not found")
	// ErrCircuitOpen is returned without a request when a host's breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
	// ErrBodyTooLarge is returned when a response exceeds the client's MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")
)

// HTTPError represents a non-200 response.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.IsNotFound()
}

// RateLimitError is returned when the server rate limits requests and says
// when to come back.
type RateLimitError struct {
	RetryAfter int // seconds
	Err        *HTTPError
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}
