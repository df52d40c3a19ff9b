package jwt

import "time"

// Config holds the process-wide token signing settings. A missing signing
// key fails issuer construction at startup.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
}
