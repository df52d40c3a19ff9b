package jwt

import "errors"

var (
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrSigningFailed     = errors.New("jwt: signing failed")
	ErrTokenMalformed    = errors.New("jwt: malformed token")
	ErrTokenExpired      = errors.New("jwt: token expired")
	ErrTokenInvalid      = errors.New("jwt: invalid token")
)
