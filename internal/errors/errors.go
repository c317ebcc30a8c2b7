// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// Code classifies engine failures so transport and clients can react
// uniformly. Everything except CodeInternal is deterministic and must not
// be retried.
type Code string

const (
	CodeNotAuthenticated Code = "not_authenticated"
	CodeNotAuthorized    Code = "not_authorized"
	CodeValidation       Code = "validation_failed"
	CodePrecondition     Code = "precondition_failed"
	CodeNotFound         Code = "not_found"
	CodeInternal         Code = "internal"
)

// Error is the engine's failure value. Services return these; the
// transport layer maps them to HTTP statuses in one place.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func NotAuthenticated(msg string) error { return &Error{Code: CodeNotAuthenticated, Msg: msg} }
func NotAuthorized(msg string) error    { return &Error{Code: CodeNotAuthorized, Msg: msg} }
func Validation(msg string) error       { return &Error{Code: CodeValidation, Msg: msg} }
func Precondition(msg string) error     { return &Error{Code: CodePrecondition, Msg: msg} }
func NotFound(msg string) error         { return &Error{Code: CodeNotFound, Msg: msg} }

func Validationf(format string, args ...any) error {
	return Validation(fmt.Sprintf(format, args...))
}

// CodeOf extracts the classification, defaulting to CodeInternal for
// infrastructure errors that bubble up unwrapped.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is lets errors.Is match on classification alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}
