package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vesperhq/authkit/pkg/qrcode"
	"github.com/vesperhq/authkit/pkg/totp"
)

// TwoFactorSetup is the material returned to the user when a second factor
// is set up or recovered. The plaintext secret and recovery codes are shown
// exactly once; only their encrypted forms are stored.
type TwoFactorSetup struct {
	Secret          string
	ProvisioningURI string
	QRCodeDataURL   string
	// RecoveryCodes is populated on setup only; recovery keeps the
	// remaining stored codes.
	RecoveryCodes []string
}

// Setup2FA generates a fresh TOTP secret and recovery code set for the
// identity and stores both encrypted, leaving the factor pending until a
// code is verified. Repeating setup before verification rotates the
// pending secret; setup on an enabled factor fails with
// ErrTwoFactorAlreadyEnabled.
func (s *Service) Setup2FA(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	var setup *TwoFactorSetup

	_, err := s.mutateByID(ctx, userID, func(user *User) error {
		if user.TwoFactorStatus() == TwoFactorOn {
			return ErrTwoFactorAlreadyEnabled
		}

		secret, err := totp.GenerateSecret(s.issuerName, user.Email)
		if err != nil {
			return err
		}
		codes, err := totp.GenerateRecoveryCodes(s.recoveryCodeCount, s.recoveryCodeLength)
		if err != nil {
			return err
		}

		sealedSecret, err := s.codec.Encrypt(secret.Key)
		if err != nil {
			return err
		}
		sealedCodes := make([]string, len(codes))
		for i, code := range codes {
			if sealedCodes[i], err = s.codec.Encrypt(code); err != nil {
				return err
			}
		}

		qr, err := qrcode.DataURL(secret.ProvisioningURI, s.qrSize)
		if err != nil {
			return err
		}

		user.TwoFactorSecret = sealedSecret
		user.RecoveryCodes = sealedCodes
		user.TwoFactorEnabled = false

		setup = &TwoFactorSetup{
			Secret:          secret.Key,
			ProvisioningURI: secret.ProvisioningURI,
			QRCodeDataURL:   qr,
			RecoveryCodes:   codes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return setup, nil
}

// Verify2FA checks a submitted code against the stored secret and, on the
// first success after setup, marks the factor enabled. A wrong code fails
// with ErrInvalidOTPCode and leaves the record untouched.
func (s *Service) Verify2FA(ctx context.Context, userID uuid.UUID, code string) error {
	_, err := s.mutateByID(ctx, userID, func(user *User) error {
		if user.TwoFactorStatus() == TwoFactorUnset {
			return ErrNoTwoFactorSecret
		}

		if err := s.verifyOTP(user, code); err != nil {
			return err
		}

		if user.TwoFactorEnabled {
			// Re-verifying an enabled factor is a no-op.
			return errNoUpdate
		}
		user.TwoFactorEnabled = true
		return nil
	})
	return err
}

// Disable2FA verifies a current code and then clears the secret, recovery
// codes and enabled flag, returning the identity to the unset state.
func (s *Service) Disable2FA(ctx context.Context, userID uuid.UUID, code string) error {
	_, err := s.mutateByID(ctx, userID, func(user *User) error {
		if user.TwoFactorStatus() == TwoFactorUnset {
			return ErrNoTwoFactorSecret
		}

		if err := s.verifyOTP(user, code); err != nil {
			return err
		}

		user.TwoFactorSecret = ""
		user.RecoveryCodes = nil
		user.TwoFactorEnabled = false
		return nil
	})
	return err
}

// RecoverAccount redeems a single-use recovery code: the matched code is
// removed and the TOTP secret rotated in the same atomic write, and the
// factor returns to pending until the new secret is verified. Recovery is
// refused once the stored set would drop to the configured floor.
func (s *Service) RecoverAccount(ctx context.Context, userID uuid.UUID, recoveryCode string) (*TwoFactorSetup, error) {
	var setup *TwoFactorSetup

	_, err := s.mutateByID(ctx, userID, func(user *User) error {
		if user.TwoFactorStatus() == TwoFactorUnset {
			return ErrNoTwoFactorSecret
		}
		if len(user.RecoveryCodes) <= s.recoveryFloor {
			return ErrNoRecoveryCodes
		}

		// Full scan: the result reflects set membership, and a decryption
		// failure anywhere means the stored set is corrupt.
		matched := -1
		for i, sealed := range user.RecoveryCodes {
			plaintext, err := s.codec.Decrypt(sealed)
			if err != nil {
				return fmt.Errorf("failed to decrypt recovery code: %w", err)
			}
			if totp.MatchRecoveryCode(recoveryCode, plaintext) {
				matched = i
			}
		}
		if matched < 0 {
			return ErrInvalidRecoveryCode
		}

		secret, err := totp.GenerateSecret(s.issuerName, user.Email)
		if err != nil {
			return err
		}
		sealedSecret, err := s.codec.Encrypt(secret.Key)
		if err != nil {
			return err
		}
		qr, err := qrcode.DataURL(secret.ProvisioningURI, s.qrSize)
		if err != nil {
			return err
		}

		user.RecoveryCodes = append(user.RecoveryCodes[:matched], user.RecoveryCodes[matched+1:]...)
		user.TwoFactorSecret = sealedSecret
		user.TwoFactorEnabled = false

		setup = &TwoFactorSetup{
			Secret:          secret.Key,
			ProvisioningURI: secret.ProvisioningURI,
			QRCodeDataURL:   qr,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return setup, nil
}

// verifyOTP decrypts the stored secret and checks the submitted code.
// Wrong and malformed codes collapse into ErrInvalidOTPCode so the response
// does not leak which check failed.
func (s *Service) verifyOTP(user *User, code string) error {
	secretKey, err := s.codec.Decrypt(user.TwoFactorSecret)
	if err != nil {
		return fmt.Errorf("failed to decrypt 2FA secret: %w", err)
	}

	ok, err := totp.VerifyCode(secretKey, code)
	if err != nil || !ok {
		return ErrInvalidOTPCode
	}
	return nil
}
