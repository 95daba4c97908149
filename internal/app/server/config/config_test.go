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

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, ":5000", cfg.RunAddress)
	assert.Empty(t, cfg.DatabaseURI)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.InDelta(t, 0.8, cfg.VoiceThreshold, 1e-9)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "127.0.0.1:9000")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("VOICE_THRESHOLD", "0.65")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.RunAddress)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.InDelta(t, 0.65, cfg.VoiceThreshold, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("VOICE_THRESHOLD", "1.5")

	_, err := Load()
	assert.Error(t, err)
}
