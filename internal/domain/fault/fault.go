// Package fault defines the application error model: every failure is
// tagged once, at its point of origin, with the originating operation
// name and a stable kind. Upstream layers branch on the kind instead of
// parsing messages, and the delivery layer maps kinds to HTTP statuses.
package fault

import (
	"fmt"
	"net/http"

	"folio/internal/errors"
)

// Kind is the stable classification of a failure. It is the `type` field
// of the client-visible error envelope.
type Kind string

const (
	// Validation marks rejected input or a failed business precondition.
	Validation Kind = "VALIDATION"
	// Restriction marks a request lacking valid authentication credentials.
	Restriction Kind = "RESTRICTION"
	// Security marks a permission violation by an authenticated caller.
	Security Kind = "SECURITY"
	// Database marks a storage transport or query failure.
	Database Kind = "DATABASE"
	// NotFound marks a lookup whose subject does not exist.
	NotFound Kind = "NOT_FOUND"
	// Unknown marks failures that escaped classification.
	Unknown Kind = "UNKNOWN"
)

// HTTPCode returns the fixed HTTP status for the kind.
func (k Kind) HTTPCode() int {
	switch k {
	case Validation, Database, Unknown:
		return http.StatusBadRequest
	case Restriction:
		return http.StatusUnauthorized
	case Security:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// Error is a classified failure. The zero value is not usable; construct
// through New or Wrap so every Error carries a kind and a message.
type Error struct {
	kind   Kind
	fn     string
	msg    string
	cause  error
	silent bool
}

// New creates an Error of the given kind, tagged with the originating
// operation name fn (e.g. "Store.FindOne").
func New(kind Kind, fn, msg string) *Error {
	return &Error{kind: kind, fn: fn, msg: msg}
}

// Wrap creates an Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, fn, msg string, cause error) *Error {
	return &Error{kind: kind, fn: fn, msg: msg, cause: cause}
}

// DB tags a storage failure.
func DB(fn, msg string, cause error) *Error {
	return Wrap(Database, fn, msg, cause)
}

// Missing tags a required lookup that found nothing.
func Missing(fn, msg string) *Error {
	return New(NotFound, fn, msg)
}

// Unauthorized tags a request that lacks valid credentials. The error is
// silent: routine authentication failures are not persisted to the error
// log.
func Unauthorized(fn, msg string) *Error {
	e := New(Restriction, fn, msg)
	e.silent = true

	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.fn, e.msg, e.cause)
	}
	if e.fn == "" {
		return e.msg
	}

	return fmt.Sprintf("%s: %s", e.fn, e.msg)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the stable classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Fn returns the originating operation name.
func (e *Error) Fn() string {
	return e.fn
}

// Message returns the client-visible message. Causes are never part of it.
func (e *Error) Message() string {
	return e.msg
}

// HTTPCode returns the HTTP status for the error's kind.
func (e *Error) HTTPCode() int {
	return e.kind.HTTPCode()
}

// Silent reports whether error-log persistence is suppressed for this error.
func (e *Error) Silent() bool {
	return e.silent
}

// KindOf extracts the Kind from anywhere in err's tree, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}

	return Unknown
}

// FromError returns the fault in err's tree, if any.
func FromError(err error) (*Error, bool) {
	var fe *Error
	ok := errors.As(err, &fe)

	return fe, ok
}
