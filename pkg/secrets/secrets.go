package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required master key size: 256 bits for AES-256.
	KeySize = 32

	// derivationInfo provides domain separation for HKDF so the same master
	// key cannot be reused verbatim by another subsystem.
	derivationInfo = "authkit-secrets-v1"
)

// Codec performs authenticated symmetric encryption of opaque secret strings
// at rest (TOTP seeds, recovery codes). The cipher is AES-256-GCM with a key
// derived from the master key via HKDF-SHA256. Construct it once at startup;
// a missing or malformed key is a configuration error, not a per-call one.
type Codec struct {
	aead cipher.AEAD
}

// New creates a Codec from a raw 32-byte master key.
func New(masterKey []byte) (*Codec, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	derived := make([]byte, KeySize)
	kdf := hkdf.New(sha256.New, masterKey, nil, []byte(derivationInfo))
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return &Codec{aead: aead}, nil
}

// NewFromConfig builds a Codec from the environment-sourced configuration.
// The key must be a base64-encoded 32-byte value.
func NewFromConfig(cfg Config) (*Codec, error) {
	if cfg.EncryptionKey == "" {
		return nil, ErrEncryptionKeyNotSet
	}
	key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyLength, err)
	}
	return New(key)
}

// Encrypt seals the plaintext and returns base64(nonce || ciphertext || tag).
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64-encoded ciphertext produced by Encrypt. Tampered
// data or a codec built from a different key fails with
// ErrIntegrityCheckFailed instead of returning garbage.
func (c *Codec) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrIntegrityCheckFailed, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", errors.Join(ErrIntegrityCheckFailed, ErrCiphertextTooShort)
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrIntegrityCheckFailed, err)
	}

	return string(plaintext), nil
}

// GenerateKey creates a new random 32-byte master key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrKeyGenerationFailed, err)
	}
	return key, nil
}

// GenerateEncodedKey creates a new random master key as a base64 string,
// suitable for dropping into an environment variable.
func GenerateEncodedKey() (string, error) {
	key, err := GenerateKey()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
