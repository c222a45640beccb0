package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can branch on the category
// instead of on concrete error types.
type ErrorKind string

const (
	// KindValidation is user input that fails a field rule or the title uniqueness constraint.
	KindValidation ErrorKind = "VALIDATION"
	// KindNotFound is a reference to a title that does not exist.
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindConcurrency is a node that vanished between the caller reading it and mutating it.
	KindConcurrency ErrorKind = "CONCURRENCY"
	// KindStore is any other failure reported by the graph store or the connection to it.
	KindStore ErrorKind = "STORE"
	// KindStartup is a failure during bootstrap, such as constraint registration.
	KindStartup ErrorKind = "STARTUP"
)

// Error is the error type returned by the bubble gateway.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface. Only the message is shown for
// validation and not-found errors since those are rendered to users as-is.
func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation, KindNotFound, KindConcurrency:
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewValidationError creates a validation error with a user-facing message.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates a not-found error for the given title.
func NewNotFoundError(title string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("No such bubble with title: %s", title)}
}

// NewConcurrencyError creates an error for a node deleted underneath a mutation.
func NewConcurrencyError(message string) *Error {
	return &Error{Kind: KindConcurrency, Message: message}
}

// NewStoreError wraps a store failure.
func NewStoreError(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// NewStartupError wraps a bootstrap failure.
func NewStartupError(step string, err error) *Error {
	return &Error{Kind: KindStartup, Message: step, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConcurrency reports whether err is a concurrency error.
func IsConcurrency(err error) bool {
	return KindOf(err) == KindConcurrency
}
