package auth

import "errors"

var (
	// ErrMissingToken is returned when the request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrTokenInvalid covers malformed, tampered or unsupported tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned once the current time reaches the token expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrUnknownSubject is returned when a valid token names a user that no longer exists.
	ErrUnknownSubject = errors.New("token subject does not exist")
)
