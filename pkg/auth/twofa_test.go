package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesperhq/authkit/pkg/auth"
	"github.com/vesperhq/authkit/pkg/totp"
)

func registerUser(t *testing.T, svc *auth.Service) *auth.User {
	t.Helper()
	res, err := svc.Register(context.Background(), "a@x.com", "Str0ng!Pass")
	require.NoError(t, err)
	return res.User
}

func currentCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.CodeAt(secret, time.Now())
	require.NoError(t, err)
	return code
}

func TestSetup2FA(t *testing.T) {
	ctx := context.Background()

	t.Run("returns secret, QR and recovery codes, leaves factor pending", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		assert.NotEmpty(t, setup.Secret)
		assert.Contains(t, setup.ProvisioningURI, "otpauth://totp/")
		assert.Contains(t, setup.ProvisioningURI, "issuer=Mento")
		assert.True(t, strings.HasPrefix(setup.QRCodeDataURL, "data:image/png;base64,"))
		assert.Len(t, setup.RecoveryCodes, 10)
		for _, code := range setup.RecoveryCodes {
			assert.Len(t, code, 8)
		}

		stored := store.get(user.ID)
		assert.Equal(t, auth.TwoFactorPending, stored.TwoFactorStatus())
		assert.False(t, stored.TwoFactorEnabled)
		// Secrets and codes are stored encrypted, never verbatim.
		assert.NotEqual(t, setup.Secret, stored.TwoFactorSecret)
		assert.NotContains(t, stored.RecoveryCodes, setup.RecoveryCodes[0])
	})

	t.Run("re-setup before verification rotates the pending secret", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		first, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		second, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, first.Secret, second.Secret)
	})

	t.Run("setup on enabled factor fails", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))

		_, err = svc.Setup2FA(ctx, user.ID)
		assert.ErrorIs(t, err, auth.ErrTwoFactorAlreadyEnabled)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Setup2FA(ctx, uuid.New())
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestVerify2FA(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code enables the factor", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))
		assert.Equal(t, auth.TwoFactorOn, store.get(user.ID).TwoFactorStatus())
	})

	t.Run("wrong code leaves factor pending", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		wrong := "000000"
		if wrong == currentCode(t, setup.Secret) {
			wrong = "000001"
		}
		err = svc.Verify2FA(ctx, user.ID, wrong)
		assert.ErrorIs(t, err, auth.ErrInvalidOTPCode)
		assert.False(t, store.get(user.ID).TwoFactorEnabled)
	})

	t.Run("malformed code is rejected the same way", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		_, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Verify2FA(ctx, user.ID, "abc"), auth.ErrInvalidOTPCode)
	})

	t.Run("re-verifying an enabled factor is idempotent", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))
		version := store.get(user.ID).Version

		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))
		assert.Equal(t, version, store.get(user.ID).Version)
	})

	t.Run("no secret present", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		assert.ErrorIs(t, svc.Verify2FA(ctx, user.ID, "123456"), auth.ErrNoTwoFactorSecret)
	})
}

func TestDisable2FA(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code clears all second-factor state", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))

		require.NoError(t, svc.Disable2FA(ctx, user.ID, currentCode(t, setup.Secret)))

		stored := store.get(user.ID)
		assert.Equal(t, auth.TwoFactorUnset, stored.TwoFactorStatus())
		assert.Empty(t, stored.TwoFactorSecret)
		assert.Empty(t, stored.RecoveryCodes)
		assert.False(t, stored.TwoFactorEnabled)
	})

	t.Run("wrong code keeps the factor", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))

		wrong := "000000"
		if wrong == currentCode(t, setup.Secret) {
			wrong = "000001"
		}
		assert.ErrorIs(t, svc.Disable2FA(ctx, user.ID, wrong), auth.ErrInvalidOTPCode)
		assert.Equal(t, auth.TwoFactorOn, store.get(user.ID).TwoFactorStatus())
	})

	t.Run("no secret present", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		assert.ErrorIs(t, svc.Disable2FA(ctx, user.ID, "123456"), auth.ErrNoTwoFactorSecret)
	})
}

func TestRecoverAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code rotates secret and consumes the code", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret)))

		recovered, err := svc.RecoverAccount(ctx, user.ID, setup.RecoveryCodes[3])
		require.NoError(t, err)
		assert.NotEqual(t, setup.Secret, recovered.Secret)
		assert.Contains(t, recovered.ProvisioningURI, "otpauth://totp/")
		assert.True(t, strings.HasPrefix(recovered.QRCodeDataURL, "data:image/png;base64,"))
		assert.Empty(t, recovered.RecoveryCodes)

		stored := store.get(user.ID)
		assert.Len(t, stored.RecoveryCodes, 9)
		// The rotated factor must be re-verified before it is trusted again.
		assert.Equal(t, auth.TwoFactorPending, stored.TwoFactorStatus())

		// A code computed against the old secret no longer verifies.
		err = svc.Verify2FA(ctx, user.ID, currentCode(t, setup.Secret))
		assert.ErrorIs(t, err, auth.ErrInvalidOTPCode)

		// The new secret does.
		require.NoError(t, svc.Verify2FA(ctx, user.ID, currentCode(t, recovered.Secret)))
	})

	t.Run("redeemed code cannot be reused", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		_, err = svc.RecoverAccount(ctx, user.ID, setup.RecoveryCodes[0])
		require.NoError(t, err)
		require.Len(t, store.get(user.ID).RecoveryCodes, 9)

		_, err = svc.RecoverAccount(ctx, user.ID, setup.RecoveryCodes[0])
		assert.ErrorIs(t, err, auth.ErrInvalidRecoveryCode)
		assert.Len(t, store.get(user.ID).RecoveryCodes, 9)
	})

	t.Run("case-insensitive code entry", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		_, err = svc.RecoverAccount(ctx, user.ID, strings.ToLower(setup.RecoveryCodes[0]))
		assert.NoError(t, err)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		_, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		_, err = svc.RecoverAccount(ctx, user.ID, "ZZZZZZZZ")
		assert.ErrorIs(t, err, auth.ErrInvalidRecoveryCode)
	})

	t.Run("recovery refused at the code floor", func(t *testing.T) {
		svc, _, _ := newTestService(t, auth.WithRecoveryCodes(1, 8))
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, setup.RecoveryCodes, 1)

		// Default floor of 1 never consumes the last code.
		_, err = svc.RecoverAccount(ctx, user.ID, setup.RecoveryCodes[0])
		assert.ErrorIs(t, err, auth.ErrNoRecoveryCodes)
	})

	t.Run("zero floor allows spending the last code", func(t *testing.T) {
		svc, store, _ := newTestService(t,
			auth.WithRecoveryCodes(1, 8),
			auth.WithRecoveryFloor(0),
		)
		user := registerUser(t, svc)

		setup, err := svc.Setup2FA(ctx, user.ID)
		require.NoError(t, err)

		_, err = svc.RecoverAccount(ctx, user.ID, setup.RecoveryCodes[0])
		require.NoError(t, err)
		assert.Empty(t, store.get(user.ID).RecoveryCodes)
	})

	t.Run("no secret present", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerUser(t, svc)

		_, err := svc.RecoverAccount(ctx, user.ID, "ABCD1234")
		assert.ErrorIs(t, err, auth.ErrNoTwoFactorSecret)
	})
}
