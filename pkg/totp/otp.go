package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// Digits is the number of digits in generated codes (RFC 6238 standard).
	Digits = 6
	// Period is the code validity window in seconds (RFC 6238 standard).
	Period = 30

	// secretBytes gives the raw seed size: 160 bits, the RFC 4226
	// recommendation for HMAC-SHA1.
	secretBytes = 20

	// skewSteps is the number of adjacent time steps accepted on either side
	// of the current one to absorb client clock drift.
	skewSteps = 1
)

// secretKeyRegex enforces Base32 format: uppercase A-Z, digits 2-7, optional padding.
var secretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

var codeRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, Digits))

// Secret is a freshly generated TOTP seed together with the otpauth:// URI
// that authenticator apps consume, typically rendered as a QR code.
type Secret struct {
	Key             string // Base32-encoded seed
	ProvisioningURI string
}

// GenerateSecret creates a fresh random seed and the provisioning URI for
// the given issuer and account labels. It has no side effects; persisting
// and protecting the seed is the caller's concern.
func GenerateSecret(issuer, account string) (Secret, error) {
	if issuer == "" {
		return Secret{}, ErrMissingIssuer
	}
	if account == "" {
		return Secret{}, ErrMissingAccountName
	}

	seed := make([]byte, secretBytes)
	if _, err := rand.Read(seed); err != nil {
		return Secret{}, errors.Join(ErrSecretGenerationFailed, err)
	}
	key := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(seed)

	return Secret{
		Key:             key,
		ProvisioningURI: provisioningURI(key, issuer, account),
	}, nil
}

// provisioningURI builds a Key Uri Format string:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func provisioningURI(key, issuer, account string) string {
	label := url.PathEscape(issuer) + ":" + url.PathEscape(account)

	query := url.Values{}
	query.Set("secret", key)
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode())
}

// VerifyCode checks a submitted code against the codes valid for the
// current time step and skewSteps adjacent steps. It mutates nothing; the
// caller decides what a match means (enabling, authenticating, rejecting).
func VerifyCode(secretKey, code string) (bool, error) {
	key, err := decodeSecret(secretKey)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	step := time.Now().Unix() / Period
	for i := -skewSteps; i <= skewSteps; i++ {
		if hotpString(key, uint64(step+int64(i))) == code {
			return true, nil
		}
	}
	return false, nil
}

// CodeAt computes the code for the time step containing t. Used for tests
// and for clients that need to produce a code for a known moment.
func CodeAt(secretKey string, t time.Time) (string, error) {
	key, err := decodeSecret(secretKey)
	if err != nil {
		return "", err
	}
	return hotpString(key, uint64(t.Unix()/Period)), nil
}

func decodeSecret(secretKey string) ([]byte, error) {
	secretKey = strings.TrimSpace(strings.ToUpper(secretKey))
	if !secretKeyRegex.MatchString(secretKey) {
		return nil, ErrInvalidSecret
	}
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(secretKey, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

// hotp implements the RFC 4226 HMAC-based one-time password algorithm.
func hotp(key []byte, counter uint64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: low 4 bits of the last byte choose the offset,
	// the MSB of the extracted word is cleared to keep the value positive.
	offset := sum[len(sum)-1] & 0x0f
	value := (int(sum[offset]&0x7f) << 24) |
		(int(sum[offset+1]) << 16) |
		(int(sum[offset+2]) << 8) |
		int(sum[offset+3])

	mod := 1
	for range Digits {
		mod *= 10
	}
	return value % mod
}

func hotpString(key []byte, counter uint64) string {
	return fmt.Sprintf("%0*d", Digits, hotp(key, counter))
}
