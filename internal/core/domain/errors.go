package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrSessionExpired = errors.New("session expired")
var ErrForbidden = errors.New("access denied: admin role required")
var ErrProductNotFound = errors.New("product not found")
var ErrUserNotFound = errors.New("user not found")
var ErrBusy = errors.New("operation already in progress")
var ErrChannelDown = errors.New("notification channel not connected")

// APIError is a non-2xx response from the storefront API. The message is the
// upstream user-facing message and is safe to surface.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("storefront returned status %d", e.StatusCode)
}

// TransportError means the storefront could not be reached at all. It is kept
// distinct from APIError so callers can choose a "check your connection" style
// message and fall back to cached data.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "storefront unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError carries the full list of client-side form violations.
// All checks run before any network call is made.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
