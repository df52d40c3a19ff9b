package totp

import "errors"

var (
	ErrMissingIssuer                = errors.New("totp: missing issuer")
	ErrMissingAccountName           = errors.New("totp: missing account name")
	ErrInvalidSecret                = errors.New("totp: invalid secret")
	ErrInvalidCodeFormat            = errors.New("totp: invalid code format")
	ErrSecretGenerationFailed       = errors.New("totp: secret generation failed")
	ErrInvalidRecoveryCodeParams    = errors.New("totp: invalid recovery code parameters")
	ErrRecoveryCodeGenerationFailed = errors.New("totp: recovery code generation failed")
)
