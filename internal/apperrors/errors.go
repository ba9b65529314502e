// Package apperrors defines the typed error taxonomy shared by the service
// layer. Callers branch on the Kind to distinguish business-rule failures
// (not found, conflict, forbidden, invalid state) from infrastructure
// failures (store unavailable); the latter are the only retryable ones.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindNotFound: the target, request, or relationship is absent.
	KindNotFound
	// KindConflict: duplicate pending request, already-friends, or a lost
	// duplicate-creation race.
	KindConflict
	// KindInvalidState: a stored or supplied value outside the known set.
	// Treated as fatal, never silently coerced.
	KindInvalidState
	// KindForbidden: the actor is not the authorized party for the transition.
	KindForbidden
	// KindStoreUnavailable: a transient store failure (timeout, connectivity).
	KindStoreUnavailable
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindForbidden:
		return "forbidden"
	case KindStoreUnavailable:
		return "store_unavailable"
	}
	return "unknown"
}

// Error is a typed failure with a human-readable reason and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that carries err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Convenience constructors, one per kind.

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func InvalidState(message string) *Error { return New(KindInvalidState, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

// StoreUnavailable wraps a transient store error so callers can tell
// infrastructure failures apart from business-rule failures.
func StoreUnavailable(message string, err error) *Error {
	return Wrap(KindStoreUnavailable, message, err)
}

// KindOf returns the kind of err, or KindUnknown if err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
