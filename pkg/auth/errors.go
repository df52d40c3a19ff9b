package auth

import "errors"

// Identity and credential errors.
var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrEmailAlreadyExists = errors.New("auth: email already exists")
	ErrEmailRequired      = errors.New("auth: email is required")
	ErrPasswordRequired   = errors.New("auth: password is required")

	// ErrInvalidCredentials is returned for any login failure, deliberately
	// not distinguishing an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	ErrPasswordReused = errors.New("auth: password reused")
	ErrNotInvited     = errors.New("auth: user has not been invited")
)

// Second-factor errors.
var (
	ErrTwoFactorAlreadyEnabled = errors.New("auth: 2FA already enabled")
	ErrNoTwoFactorSecret       = errors.New("auth: no secret to verify")
	ErrInvalidOTPCode          = errors.New("auth: invalid one-time code")
	ErrNoRecoveryCodes         = errors.New("auth: no recovery codes available")
	ErrInvalidRecoveryCode     = errors.New("auth: invalid recovery code")
)

// ErrConcurrentUpdate reports a lost compare-and-swap race against the
// credential store. No partial mutation has occurred; the operation is safe
// to retry.
var ErrConcurrentUpdate = errors.New("auth: concurrent update conflict")
