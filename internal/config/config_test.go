package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "coach-gateway", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 365, cfg.Auth.CodeTokenTTLDays)
	assert.Equal(t, 30, cfg.Auth.EmailTokenTTLDays)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.Upstream.URL)
	assert.Equal(t, "X-Signature-SHA256", cfg.Webhook.SignatureHeader)
}

func TestLoad_AccessCodesList(t *testing.T) {
	t.Setenv("AUTH_ACCESS_CODES", "demo2024, Coach2025 ,, beta ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"demo2024", "Coach2025", "beta"}, cfg.Auth.AccessCodes)
}

func TestLoad_TokenTTLOverrides(t *testing.T) {
	t.Setenv("AUTH_CODE_TOKEN_TTL_DAYS", "10")
	t.Setenv("AUTH_EMAIL_TOKEN_TTL_DAYS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*24*time.Hour, cfg.Auth.CodeTokenTTL())
	assert.Equal(t, 5*24*time.Hour, cfg.Auth.EmailTokenTTL())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
