package services

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a domain failure for transport mapping
type ErrorKind string

const (
	// KindValidation marks missing or malformed input; user-fixable.
	KindValidation ErrorKind = "validation"
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindPrecondition marks an unmet business precondition, such as
	// incomplete KYC or a scheme type mismatch.
	KindPrecondition ErrorKind = "precondition"
	// KindAuthenticity marks a failed gateway signature check. Security
	// relevant; logged distinctly from generic validation.
	KindAuthenticity ErrorKind = "authenticity"
	// KindDependency marks a failed call to an external collaborator.
	KindDependency ErrorKind = "dependency"
)

// Error is a classified domain error with a stable client-facing message
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to a response status code. Gateway and
// notification dependency failures are load-bearing here; best-effort
// sends are swallowed before they ever reach this mapping.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindPrecondition, KindAuthenticity:
		return http.StatusBadRequest
	case KindDependency:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError reports malformed or missing input
func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an absent referenced entity
func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// PreconditionError reports an unmet business precondition
func PreconditionError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// AuthenticityError reports a failed signature verification
func AuthenticityError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthenticity, Message: fmt.Sprintf(format, args...)}
}

// DependencyError wraps a failed external call
func DependencyError(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}
