// Package apperrors defines the error kinds shared by the Plane client, the
// services and the tool layer.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNothingToUpdate      = errors.New("no update parameters provided")
	ErrUpstream             = errors.New("upstream request failed")
)

// Error carries a user-facing message together with the sentinel kind and
// the underlying cause. errors.Is and errors.As see both.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// New returns an *Error of the given kind with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap replaces the message of cause while keeping its kind reachable
// through errors.Is / errors.As.
func Wrap(cause error, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Err: cause}
}

// Invalid is shorthand for New(ErrInvalidInput, ...).
func Invalid(format string, args ...any) error {
	return New(ErrInvalidInput, format, args...)
}

// Message returns the user-facing message of err: the outermost *Error
// message when there is one, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
