// Package apperr defines the error taxonomy shared by all handlers and services.
// Storage and crypto failures are mapped into one of these categories before they
// reach the HTTP layer; raw driver errors never leave the service boundary.
package apperr

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindAuth
	KindNotFound
	KindInternal
)

// Error is a categorized application error. Validation errors may carry
// per-field messages so a form can surface every violation at once.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(msgs, "; ") + ")"
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal wraps an unexpected failure. The cause is retained for server-side
// logging but the message is all a client will ever see.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf returns the category of err, or KindInternal for uncategorized errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the *Error from err's chain, if present.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
