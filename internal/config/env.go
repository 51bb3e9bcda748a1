package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// loadFromEnv overrides configuration with environment variables.
// A .env file in the working directory is loaded first; variables already
// present in the process environment win over it.
func loadFromEnv(config *Config) error {
	_ = godotenv.Load()

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
