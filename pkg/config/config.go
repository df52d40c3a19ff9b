package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer provided")
	ErrParsingFailed = errors.New("config: failed to parse environment variables")
)

var loadDotEnv sync.Once

// Load parses environment variables into the provided struct based on `env`
// field tags. A local .env file, if present, is loaded once per process
// before the first parse; its absence is not an error. Missing values for
// fields tagged `required` fail the load.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingFailed, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Configuration required for
// the process to function at all should refuse to start the process.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
