package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/codeide/internal/flagx"
	"github.com/dmitrijs2005/codeide/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so both "168h" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	DatabaseDriver        string         `json:"database_driver"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	CORSOrigin            string         `json:"cors_origin"`
	LogBackend            string         `json:"log_backend"`
	LogLevel              string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Keys missing
// from the file keep their current values. Without the flag nothing is
// loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
