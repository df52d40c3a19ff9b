// Package totp implements RFC 6238 time-based one-time passwords and the
// single-use recovery codes that back them up.
//
// GenerateSecret produces a 160-bit Base32 seed and an otpauth:// URI for
// authenticator apps. VerifyCode checks a submitted code against the current
// 30-second step plus one step on either side to absorb clock drift; it is a
// pure check with no state; enabling and rejecting are the caller's
// business. Seeds and recovery codes are plaintext here; protect
// them at rest with the secrets package.
package totp
