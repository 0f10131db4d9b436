// Package errors defines the tagged error values shared by the services.
// Handlers branch on the error kind rather than on message text, so a
// conflict, a missing record and an invalid request each map to their own
// HTTP status.
package errors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	// KindConflict marks an interval overlap on create/update. The caller
	// can correct the request, so it maps to 400.
	KindConflict
	KindNotFound
	KindValidation
	KindUnauthorized
	// KindUnavailable marks a collaborator transport failure. It is logged
	// where it happens and never surfaced to HTTP callers.
	KindUnavailable
)

// Error is an error with an associated kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Unavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps an error to the HTTP status the handlers respond with.
// Conflicts are user-correctable and return 400, matching the public API
// contract rather than 409.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindConflict, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
