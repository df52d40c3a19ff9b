// Package auth is the identity and credential-security core: password
// authentication, an optional TOTP second factor with single-use recovery
// codes, and bearer-token issuance as the capability proof.
//
// The Service composes the leaf packages (password, totp, secrets, jwt,
// qrcode) over a CredentialStorage boundary. Each operation is one
// read-modify-write transaction against a single identity record; the
// store's compare-and-swap contract (User.Version) detects lost races so
// concurrent operations fail or retry instead of silently interleaving.
//
// State machine for the second factor, derived by User.TwoFactorStatus:
//
//	Unset   --Setup2FA-->        Pending (secret stored, not yet trusted)
//	Pending --Verify2FA(ok)-->   On
//	On      --Disable2FA(ok)-->  Unset (secret, codes, flag cleared)
//	Pending/On --RecoverAccount(valid code)--> Pending (secret rotated,
//	        redeemed code consumed in the same write)
//
// Notifications (invitation, password reset) are fire-and-forget: the
// record mutation is already durable when they run, and delivery failures
// are logged but never converted into operation failures.
package auth
