// Package secrets provides authenticated encryption for opaque secret
// strings stored at rest, such as TOTP seeds and account recovery codes.
//
// A Codec is constructed once at process start from a 32-byte master key
// (base64-encoded in the AUTH_ENCRYPTION_KEY environment variable) and is
// safe for concurrent use. Encryption is AES-256-GCM; the actual cipher key
// is derived from the master key with HKDF-SHA256 so the raw master key is
// never used directly.
//
//	codec, err := secrets.NewFromConfig(cfg)
//	if err != nil {
//		log.Fatal(err) // misconfiguration, refuse to start
//	}
//
//	sealed, err := codec.Encrypt(totpSeed)
//	seed, err := codec.Decrypt(sealed) // fails with ErrIntegrityCheckFailed on tamper
package secrets
