package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.False(t, cfg.StrictTransitions)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestFromEnvRejectsUnknownStoreDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STRICT_TRANSITIONS", "true")
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("ENV", "production")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL())
	assert.False(t, cfg.IsDevelopment())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "hub", DBName: "hub", DBSSLMode: "disable", DBPassword: "pw"}
	assert.Equal(t, "host=db port=5432 user=hub dbname=hub sslmode=disable password=pw", cfg.DSN())

	cfg.DatabaseURL = "postgres://hub@db/hub"
	assert.Equal(t, "postgres://hub@db/hub", cfg.DSN())
}
