package secrets

// Config holds the at-rest encryption key for credential secrets.
// The key is a base64-encoded 32-byte value; generate one with
// GenerateEncodedKey. Absence of the key is a startup-fatal condition.
type Config struct {
	EncryptionKey string `env:"AUTH_ENCRYPTION_KEY,required"`
}
