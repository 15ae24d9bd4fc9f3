// Package domain defines domain-level errors for the auth feature.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so that the transport layer can map it to a status code.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed or missing client input.
	KindValidation
	// KindConflict covers duplicate unique keys such as an email already in use.
	KindConflict
	// KindAuth covers bad credentials. Messages stay generic to prevent account enumeration.
	KindAuth
	// KindUnauthorized covers requests that carry no credential at all.
	KindUnauthorized
	// KindForbidden covers bad, reused, revoked or expired tokens and ownership failures.
	KindForbidden
	// KindNotFound covers lookups of records that do not exist.
	KindNotFound
	// KindConfiguration covers deployment faults such as a missing signing secret.
	KindConfiguration
	// KindStore covers persistence failures and store timeouts.
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the tagged error returned by every auth operation.
// Message is safe to show to the client; Err carries the internal cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels of the same kind, so errors.Is(err, ErrForbidden) works
// for any forbidden error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Kind sentinels for errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrAuth          = &Error{Kind: KindAuth}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrForbidden     = &Error{Kind: KindForbidden}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrStore         = &Error{Kind: KindStore}
)

// Token codec errors. They are plain sentinels because the codec lives in the
// platform layer and the usecase decides which taxonomy kind they become.
var (
	// ErrSecretNotConfigured indicates that a signing secret is missing.
	ErrSecretNotConfigured = errors.New("token secret is not configured")

	// ErrTokenInvalid indicates a malformed, expired, tampered or wrongly signed token.
	ErrTokenInvalid = errors.New("token is invalid or expired")
)

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func Auth(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }

func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Configuration wraps a deployment fault. The client only ever sees a generic message.
func Configuration(err error) *Error {
	return &Error{Kind: KindConfiguration, Message: "Server configuration error.", Err: err}
}

// Store wraps a persistence failure. The client only ever sees a generic message.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: "An internal server error occurred.", Err: err}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
