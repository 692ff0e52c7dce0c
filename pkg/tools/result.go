package tools

import (
	"errors"

	"github.com/ekaya-inc/plane-mcp/pkg/apperrors"
	"github.com/ekaya-inc/plane-mcp/pkg/plane"
)

// Kind classifies the outcome of an operation.
type Kind string

const (
	KindOK           Kind = "ok"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindUpstream     Kind = "upstream_error"
	KindNetwork      Kind = "network_error"
	KindInternal     Kind = "internal_error"
)

// Result is the outcome of one operation.
type Result struct {
	Kind    Kind
	Message string
	// Data is the structured payload behind Message, when there is one.
	Data any
	// StatusCode is the Plane HTTP status that caused a failure, if any.
	StatusCode int
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Kind == KindOK
}

// String renders the result as text. Failures are prefixed with "Error: ".
func (r Result) String() string {
	if r.OK() {
		return r.Message
	}
	return "Error: " + r.Message
}

func success(message string) Result {
	return Result{Kind: KindOK, Message: message}
}

// failure converts an error from any layer into a Result.
func failure(err error) Result {
	r := Result{Kind: classify(err), Message: message(err)}
	if code, ok := plane.StatusCode(err); ok {
		r.StatusCode = code
	}
	return r
}

func classify(err error) Kind {
	var transportErr *plane.TransportError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrConfirmationRequired),
		errors.Is(err, apperrors.ErrNothingToUpdate):
		return KindInvalidInput
	case errors.Is(err, apperrors.ErrNotFound):
		return KindNotFound
	case errors.As(err, &transportErr):
		return KindNetwork
	case errors.Is(err, apperrors.ErrPermissionDenied), errors.Is(err, apperrors.ErrUpstream):
		return KindUpstream
	}
	return KindInternal
}

func message(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	var transportErr *plane.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}

	var statusErr *plane.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	return "Unexpected error - " + err.Error()
}
