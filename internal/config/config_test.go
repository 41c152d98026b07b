package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory/internal/logger"
	"org-directory/internal/store"
)

var envKeys = []string{
	"DB_DRIVER", "DB_FILE", "DB_TEST", "DB_URL",
	"PG_HOST", "PG_PORT", "PG_USER", "PG_PASSWORD", "PG_DB", "PG_SSLMODE", "PG_MAX_OPEN_CONNS", "PG_MAX_IDLE_CONNS",
	"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASS", "REDIS_DB",
	"CACHE_TTL_S", "CACHE_LRU_SIZE", "ADDR", "API_BASE", "RATE_LIMIT_ENABLED", "RATE_LIMIT_QPS",
	"TLS_ENABLE", "TLS_CERT_PATH", "TLS_KEY_PATH", "AUTO_MIGRATE", "SEED_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	logger.Set(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, store.SQLite, c.Driver)
	assert.Equal(t, DefaultDBFile, c.DBFile)
	assert.Equal(t, DefaultAddr, c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, 60*time.Second, c.CacheTTL)
	assert.True(t, c.AutoMigrate)
	assert.False(t, c.TLS.Enable)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr())
	assert.Equal(t, DefaultQPS, c.RateLimitQPS)

	dsn, err := c.DSN()
	require.NoError(t, err)
	assert.Equal(t, "data/directory.db", dsn)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL_S", "soon")
	t.Setenv("AUTO_MIGRATE", "maybe")
	t.Setenv("RATE_LIMIT_QPS", "-3")
	t.Setenv("API_BASE", "/v1/")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, c.CacheTTL)
	assert.True(t, c.AutoMigrate)
	assert.Equal(t, DefaultQPS, c.RateLimitQPS)
	assert.Equal(t, "/v1", c.APIBase)
}

func TestLoad_UnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN_SQLiteTestMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_TEST", "true")
	c, err := Load()
	require.NoError(t, err)
	dsn, err := c.DSN()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)
}

func TestDSN_PostgresMissingVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PG_USER", "app")
	c, err := Load()
	require.NoError(t, err)
	_, err = c.DSN()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PG_HOST, PG_DB, PG_PORT")
}

func TestDSN_PostgresTestModeRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_TEST", "1")
	c, err := Load()
	require.NoError(t, err)
	_, err = c.DSN()
	assert.ErrorContains(t, err, "test (in-memory) mode")
}

func TestDSN_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "pg")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "5432")
	t.Setenv("PG_USER", "app")
	t.Setenv("PG_PASSWORD", "p@ss word")
	t.Setenv("PG_DB", "directory")
	c, err := Load()
	require.NoError(t, err)
	dsn, err := c.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/directory?sslmode=disable", dsn)
}

func TestDSN_URLOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://x@y/z")
	c, err := Load()
	require.NoError(t, err)
	dsn, err := c.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x@y/z", dsn)
}
