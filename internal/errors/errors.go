package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the link-in-bio application

// ErrNotFound is returned when a profile, link, domain or reorder target doesn't exist
var ErrNotFound = errors.New("not found")

// ErrInvalidURL is returned when the provided URL is invalid
var ErrInvalidURL = errors.New("invalid URL format")

// ErrInvalidTheme is returned when a theme color or button style is not accepted
var ErrInvalidTheme = errors.New("invalid theme")

// ErrInvalidPrice is returned when a domain listing price is negative
var ErrInvalidPrice = errors.New("price must be a non-negative decimal")

// ErrMalformedEvent is returned when a click names neither or both of a link and a domain
var ErrMalformedEvent = errors.New("click event must reference exactly one link or domain")

// ErrClickDropped is returned when the click buffer is full or already closed
var ErrClickDropped = errors.New("click event dropped")

// ErrUsernameTaken is returned on sign-up or rename when the username or email is in use
var ErrUsernameTaken = errors.New("username or email already taken")

// ErrInvalidCredentials is returned when email/password don't match
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized is returned when a bearer token is missing, expired or invalid
var ErrUnauthorized = errors.New("unauthorized")

// ErrAvatarTooLarge is returned when an uploaded avatar exceeds the configured size
var ErrAvatarTooLarge = errors.New("avatar too large")

// ErrUnsupportedAvatar is returned when an uploaded avatar is not a supported image
var ErrUnsupportedAvatar = errors.New("unsupported avatar format")

// PersistenceFailure records a single backend write that failed for one identifier.
// It is reported alongside other results rather than aborting the surrounding operation.
type PersistenceFailure struct {
	ID  string
	Err error
}

func (e PersistenceFailure) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.ID, e.Err)
}

func (e PersistenceFailure) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a request field fails validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
