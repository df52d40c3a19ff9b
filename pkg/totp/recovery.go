package totp

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math"
	"strings"
)

const (
	// DefaultRecoveryCodeCount is the number of backup codes issued on 2FA setup.
	DefaultRecoveryCodeCount = 10
	// DefaultRecoveryCodeLength is the character length of each backup code.
	DefaultRecoveryCodeLength = 8
)

// GenerateRecoveryCodes creates cryptographically random backup codes for
// account recovery. Codes are uppercase hex of the given length and are
// pairwise unique within the returned set; duplicates are regenerated.
// Uniqueness is guaranteed only per call, not across identities.
func GenerateRecoveryCodes(count, length int) ([]string, error) {
	if count < 1 || length < 1 {
		return nil, ErrInvalidRecoveryCodeParams
	}
	// A degenerate alphabet/length combination cannot yield enough distinct
	// codes, so the regeneration loop would never terminate.
	if length < 16 && float64(count) > math.Pow(16, float64(length)) {
		return nil, ErrInvalidRecoveryCodeParams
	}

	codes := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(codes) < count {
		buf := make([]byte, (length+1)/2)
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrRecoveryCodeGenerationFailed, err)
		}
		code := strings.ToUpper(hex.EncodeToString(buf))[:length]
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// MatchRecoveryCode compares a submitted code to a stored plaintext code in
// constant time, ignoring case and surrounding whitespace.
func MatchRecoveryCode(submitted, stored string) bool {
	submitted = strings.ToUpper(strings.TrimSpace(submitted))
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
