package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Vault performs one-way password hashing and verification with a tunable
// bcrypt work factor, and enforces the reuse ban against a password history.
// The zero work factor falls back to bcrypt.DefaultCost.
type Vault struct {
	cost int
}

type Option func(*Vault)

// WithCost sets the bcrypt work factor. Values outside the range bcrypt
// accepts surface as hashing errors on first use rather than at construction.
func WithCost(cost int) Option {
	return func(v *Vault) {
		v.cost = cost
	}
}

// NewVault creates a password vault with the given options.
func NewVault(opts ...Option) *Vault {
	v := &Vault{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Hash derives a salted one-way hash of the plaintext. Two calls with the
// same input produce different bytes but remain verify-compatible.
func (v *Vault) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", errors.Join(ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Verify checks the plaintext against a stored hash. A mismatch fails with
// ErrPasswordMismatch so callers can propagate it as an authentication
// failure instead of interpreting a bare boolean.
func (v *Vault) Verify(plaintext, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// CheckReuse rejects a candidate password that verifies against the current
// hash or any entry of the history. Every entry is checked even after a
// match is found; the result must reflect full set membership, not the first
// hit.
func (v *Vault) CheckReuse(candidate, currentHash string, history []string) error {
	reused := false
	if currentHash != "" && bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(candidate)) == nil {
		reused = true
	}
	for _, old := range history {
		if bcrypt.CompareHashAndPassword([]byte(old), []byte(candidate)) == nil {
			reused = true
		}
	}
	if reused {
		return ErrPasswordReused
	}
	return nil
}
