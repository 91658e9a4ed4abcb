// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/codeide/internal/logging"
	"github.com/dmitrijs2005/codeide/internal/server/auth"
	"github.com/dmitrijs2005/codeide/internal/server/storage"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSecretKey is the development signing secret. The app warns when it
// is still in use.
const DefaultSecretKey = "dev_fallback_secret"

// Config holds runtime settings for the codeide server.
//
// Fields:
//   - HTTPAddr: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "pgx" (PostgreSQL) or "sqlite" and its DSN.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - BcryptCost: work factor for password hashes.
//   - CORSOrigin: browser origin allowed to call the API, "*" for any.
//   - LogBackend / LogLevel: logger implementation and minimum level.
type Config struct {
	HTTPAddr              string        `env:"CODEIDE_HTTP_ADDR"`
	DatabaseDriver        string        `env:"CODEIDE_DATABASE_DRIVER"`
	DatabaseDSN           string        `env:"CODEIDE_DATABASE_DSN"`
	SecretKey             string        `env:"CODEIDE_SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"CODEIDE_TOKEN_VALIDITY"`
	BcryptCost            int           `env:"CODEIDE_BCRYPT_COST"`
	CORSOrigin            string        `env:"CODEIDE_CORS_ORIGIN"`
	LogBackend            string        `env:"CODEIDE_LOG_BACKEND"`
	LogLevel              string        `env:"CODEIDE_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and the development secret.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.DatabaseDriver = storage.DriverSQLite
	c.DatabaseDSN = "codeide.db"
	c.SecretKey = DefaultSecretKey
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.BcryptCost = auth.DefaultBcryptCost
	c.CORSOrigin = "http://localhost:5173"
	c.LogBackend = logging.BackendSlog
	c.LogLevel = "info"
}

// Validate reports every setting the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address is empty"))
	}
	switch c.DatabaseDriver {
	case storage.DriverPostgres, storage.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendLogrus:
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}
	return errors.Join(errs...)
}

// UsesDefaultSecret reports whether tokens are signed with DefaultSecretKey.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, err
	}
	return cfg, nil
}
