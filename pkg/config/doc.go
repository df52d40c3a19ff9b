// Package config loads environment-sourced configuration structs.
//
// Each package that needs configuration declares its own Config struct with
// `env` tags; composition code loads them all at startup so that a missing
// signing key, encryption key or connection URL is a startup-fatal condition
// rather than a per-request surprise.
//
//	type Config struct {
//		SigningKey string        `env:"JWT_SIGNING_KEY,required"`
//		TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
