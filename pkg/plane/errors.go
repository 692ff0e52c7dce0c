package plane

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
)

// StatusError is returned when Plane answers with an unexpected status code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status code %d", e.StatusCode)
}

// Unwrap maps well-known statuses onto apperrors kinds.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrPermissionDenied
	}
	return apperrors.ErrUpstream
}

// IsRetryable implements retry.RetryableError: rate limiting and server errors.
func (e *StatusError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return "Network error - " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable implements retry.RetryableError. Cancellation by the caller is final.
func (e *TransportError) IsRetryable() bool {
	return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, context.DeadlineExceeded)
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
