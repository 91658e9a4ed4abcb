package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("CODEIDE_HTTP_ADDR", ":8080")
	t.Setenv("CODEIDE_DATABASE_DRIVER", "pgx")
	t.Setenv("CODEIDE_SECRET_KEY", "from-env")
	t.Setenv("CODEIDE_TOKEN_VALIDITY", "48h")
	t.Setenv("CODEIDE_BCRYPT_COST", "11")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "pgx", cfg.DatabaseDriver)
	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.Equal(t, "codeide.db", cfg.DatabaseDSN, "unset variables keep their value")
}

func TestParseEnv_BadValue(t *testing.T) {
	t.Setenv("CODEIDE_BCRYPT_COST", "lots")

	assert.Error(t, parseEnv(&Config{}))
}
