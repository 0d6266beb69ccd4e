package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "SERVER_PORT", "REDIS_URL", "AUTO_MIGRATE",
		"RATE_LIMIT_PER_MINUTE", "IDENTITY_HEADER", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "Career Admin API", cfg.AppName)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "X-User-ID", cfg.IdentityHeader)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_DB_CONNS", "4")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("IDENTITY_HEADER", "X-Admin")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, int32(4), cfg.MaxDBConns)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, "X-Admin", cfg.IdentityHeader)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_DB_CONNS", "many")
	t.Setenv("AUTO_MIGRATE", "sometimes")

	cfg := Load()

	assert.Equal(t, int32(10), cfg.MaxDBConns)
	assert.False(t, cfg.AutoMigrate)
}
