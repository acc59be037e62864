package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_MapsPrefixedVariables(t *testing.T) {
	t.Setenv("APP_TOKEN_SIGN_KEY", "secret")
	t.Setenv("APP_TOKEN_DURATION", "2h")
	t.Setenv("STORAGE_DB_DSN", "kenread.db")
	t.Setenv("SERVER_HTTP_ADDRESS", "localhost:9090")
	t.Setenv("CATALOG_REQUESTS_PER_SECOND", "3")
	t.Setenv("CLIENT_RELOAD_INTERVAL", "90s")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "secret", cfg.App.TokenSignKey)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "kenread.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, 3, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, 90*time.Second, cfg.Client.ReloadInterval)
}

func TestParseEnv_EmptyEnvLeavesZeroValues(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Zero(t, cfg.App.TokenDuration)
}
