package password

import "errors"

var (
	ErrHashingFailed    = errors.New("password: hashing failed")
	ErrPasswordMismatch = errors.New("password: password mismatch")
	ErrPasswordReused   = errors.New("password: password reused")
)
