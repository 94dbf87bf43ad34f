package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.FeeCacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.Pricing.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.Referral.Timeout)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "migrations", cfg.DB.MigrationsDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GROCERY_HTTP_ADDR", ":9090")
	t.Setenv("GROCERY_DB_MAX_CONNS", "25")
	t.Setenv("GROCERY_FEE_CACHE_TTL", "30s")
	t.Setenv("GROCERY_REFERRAL_URL", "https://api.example.test")
	t.Setenv("GROCERY_DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Pricing.FeeCacheTTL)
	assert.Equal(t, "https://api.example.test", cfg.Referral.BaseURL)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("GROCERY_DB_MAX_CONNS", "many")
	t.Setenv("GROCERY_SESSION_TTL", "forever")
	t.Setenv("GROCERY_FEE_CACHE_TTL", "-1m")
	t.Setenv("GROCERY_DB_AUTO_MIGRATE", "sometimes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 2*time.Hour, cfg.Pricing.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.FeeCacheTTL)
	assert.False(t, cfg.DB.AutoMigrate)
}
