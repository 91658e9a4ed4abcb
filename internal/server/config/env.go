package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays CODEIDE_* environment variables onto config. Unset
// variables leave fields untouched.
func parseEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
