package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for adapters (HTTP status, logging).
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is the single error type raised by the booking core.
// Field names the offending input field, when there is one.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reference reports whether a NotFound error points at an input reference
// (e.g. staffId in a booking body) rather than at the requested resource.
func (e *Error) Reference() bool {
	return e.Kind == KindNotFound && e.Field != ""
}

func MissingField(message string, fields ...string) *Error {
	e := &Error{Kind: KindMissingField, Message: message}
	if len(fields) > 0 {
		e.Field = fields[0]
	}
	return e
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidReference is a NotFound caused by an identifier supplied in the input.
func InvalidReference(field, message string) *Error {
	return &Error{Kind: KindNotFound, Field: field, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected collaborator failure.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsDomain reports whether err is an expected, user-facing outcome.
func IsDomain(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindInternal
}
