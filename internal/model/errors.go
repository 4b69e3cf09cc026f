package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrStore marks failures of the persistence layer. It never matches any of the
// token or credential errors below.
var ErrStore = errors.New("token store failure")

// Token validation errors.
var (
	ErrTokenMissing       = errors.New("token missing")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenNotRegistered = errors.New("token not registered")
	ErrTokenBadPayload    = errors.New("token payload is malformed")
	ErrPairingMismatch    = errors.New("refresh token was not issued with this session token")
)

// Identity and credential errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserMismatch      = errors.New("token belongs to another user")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrEmailExists       = errors.New("email already exists")
	ErrUsernameExists    = errors.New("username already exists")
)

// ErrMissingField is wrapped by every registration field error.
var ErrMissingField = errors.New("missing field")

var (
	ErrMissingEmail    = fmt.Errorf("%w: email", ErrMissingField)
	ErrMissingPassword = fmt.Errorf("%w: password", ErrMissingField)
	ErrMissingUsername = fmt.Errorf("%w: username", ErrMissingField)
)

// IsTokenError reports whether err is a failure a client may recover from by
// presenting a refresh token.
func IsTokenError(err error) bool {
	for _, target := range []error{
		ErrTokenMissing,
		ErrTokenExpired,
		ErrTokenNotRegistered,
		ErrTokenBadPayload,
		ErrUserNotFound,
		ErrUserMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
