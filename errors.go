package session

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidState  = "SESSION_INVALID_STATE"
	TextCodeAuthRejected  = "SESSION_AUTH_REJECTED"
	TextCodeTransport     = "SESSION_TRANSPORT"
	TextCodeStaleResponse = "SESSION_STALE_RESPONSE"
)

// ErrInvalidState is returned when an operation is invoked against a
// session state that cannot satisfy it, e.g. a profile update with no
// token. It marks a programming-contract violation; callers log and no-op.
var ErrInvalidState = errors.New("operation requires an authenticated session", errors.CategoryConflict).
	WithTextCode(TextCodeInvalidState).
	WithCode(errors.CodeConflict)

// ErrAuthRejected is returned when the backend reports a non-success status
// on an authenticated call, which implies the token is invalid or expired.
var ErrAuthRejected = errors.New("backend rejected the session token", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRejected).
	WithCode(errors.CodeUnauthorized)

// ErrStaleResponse is returned when an asynchronous completion belongs to a
// previous session generation and has been discarded.
var ErrStaleResponse = errors.New("response belongs to a stale session generation", errors.CategoryConflict).
	WithTextCode(TextCodeStaleResponse).
	WithCode(errors.CodeConflict)

// WrapTransport classifies a network or decode failure as retryable
// transport trouble. The session layer never retries these on its own.
func WrapTransport(err error, msg string) *errors.Error {
	return errors.Wrap(err, errors.CategoryOperation, msg).
		WithTextCode(TextCodeTransport)
}

// IsAuthError checks for a backend token rejection.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeAuthRejected
	}
	return false
}

// IsTransportError checks for a retryable transport failure.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeTransport
	}
	return false
}

// IsInvalidState checks for a session state contract violation.
func IsInvalidState(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeInvalidState
	}
	return false
}
