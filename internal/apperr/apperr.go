// Package apperr defines the error taxonomy shared by the directory services.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks malformed or out-of-range input. Always caller-fixable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a well-formed query that matched nothing where absence cannot be expressed as an empty result.
	ErrNotFound = errors.New("not found")
	// ErrDependencyFailure marks a failing collaborator such as the database or the geocoder.
	ErrDependencyFailure = errors.New("dependency failure")
)

// Error carries a human-readable message, its kind and an optional cause.
type Error struct {
	kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.Cause}
}

// InvalidArgument builds an ErrInvalidArgument error.
func InvalidArgument(format string, args ...interface{}) error {
	return &Error{kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds an ErrNotFound error.
func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps a collaborator failure, keeping the original cause attached.
func Dependency(dependency string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *Error
	if errors.As(cause, &existing) && errors.Is(cause, ErrDependencyFailure) {
		return cause
	}
	return &Error{kind: ErrDependencyFailure, Message: dependency + " unavailable", Cause: cause}
}

// Message returns the user-facing message of err, falling back to err.Error().
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
