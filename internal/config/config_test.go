package config_test

import (
	"testing"
	"time"

	"blog-platform/internal/config"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SIGN_KEY", "s3cret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("GO_ENV", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), cfg.SignKey)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, config.DriverSQLite, cfg.DBDriver)
	require.Equal(t, "./db.sqlite", cfg.DatabaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.False(t, cfg.IsDev)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SIGN_KEY", "k")
	t.Setenv("GO_ENV", "development")
	t.Setenv("SERVER_ADDR", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/blog")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	require.True(t, cfg.IsDev)
	require.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, config.DriverPostgres, cfg.DBDriver)
}

func TestFromEnvErrors(t *testing.T) {
	t.Setenv("SIGN_KEY", "")
	_, err := config.FromEnv()
	require.Error(t, err)

	t.Setenv("SIGN_KEY", "k")
	t.Setenv("TOKEN_TTL", "forever")
	_, err = config.FromEnv()
	require.Error(t, err)

	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("DB_DRIVER", "mongodb")
	_, err = config.FromEnv()
	require.Error(t, err)
}
