package apperr

import (
	"errors"
	"fmt"
)

// Kind buckets application errors so the HTTP layer can map codes
// without string matching.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindBusinessRule
	KindInternal
)

// Error is the application error carried from services to handlers.
// Business-rule messages must reach the client unmodified.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode maps the error kind to its HTTP status.
// Business-rule violations map to 409 (insufficient budget, out of stock).
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindBusinessRule:
		return 409
	default:
		return 500
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func BusinessRule(format string, args ...interface{}) *Error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}

// From unwraps err into an *Error, defaulting to an internal error with a
// generic message so accidental details never leak to clients.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Message: "Internal Server Error"}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
