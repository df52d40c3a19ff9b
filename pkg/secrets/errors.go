package secrets

import "errors"

var (
	ErrInvalidKeyLength     = errors.New("secrets: encryption key must be 32 bytes")
	ErrEncryptionKeyNotSet  = errors.New("secrets: encryption key not set")
	ErrKeyDerivationFailed  = errors.New("secrets: key derivation failed")
	ErrKeyGenerationFailed  = errors.New("secrets: key generation failed")
	ErrEncryptionFailed     = errors.New("secrets: encryption failed")
	ErrIntegrityCheckFailed = errors.New("secrets: integrity check failed")
	ErrCiphertextTooShort   = errors.New("secrets: ciphertext too short")
)
