package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// parseEnv overlays LOFS_* environment variables. Unset variables leave the
// corresponding field untouched.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}
