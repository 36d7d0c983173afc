package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced to API clients is classified by one of
// these through errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("access forbidden")
	ErrRateLimited      = errors.New("too many requests")
)

// Authentication failures.
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
)

// ErrRecordNotFound is returned by repositories when no row matches the id.
var ErrRecordNotFound = errors.New("record not found")

// Error is a classified failure carrying a client-safe message.
// Field is set for conflicts on a unique column.
type Error struct {
	Kind    error
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a unique constraint violation on field. An empty field
// yields a generic duplicate message.
func Conflict(field string, cause error) error {
	msg := "duplicate record"
	if field != "" {
		msg = field + " is already in use"
	}
	return &Error{Kind: ErrConflict, Message: msg, Field: field, Cause: cause}
}

func InvalidReference(msg string, cause error) error {
	return &Error{Kind: ErrInvalidReference, Message: msg, Cause: cause}
}

func Unauthorized(msg string, cause error) error {
	return &Error{Kind: ErrUnauthorized, Message: msg, Cause: cause}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

// Message returns the client-safe message of a classified error, or fallback.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
