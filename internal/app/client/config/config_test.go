package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, "http://localhost:5000/api", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 3*time.Minute, cfg.TrackerInterval())
	assert.Equal(t, filepath.Join(dir, "vera.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "vault.key"), cfg.VaultKeyPath)
	assert.Equal(t, "https://www.google.com/generate_204", cfg.ConnectivityURL)
	assert.False(t, cfg.HasStaticLocation())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("APP_ENV", "dev")
	t.Setenv("BASE_URL", "https://vera.example.com/api/")
	t.Setenv("REQUEST_TIMEOUT_MS", "1500")
	t.Setenv("STATIC_LATITUDE", "48.85")
	t.Setenv("LOCATION_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, "https://vera.example.com/api", cfg.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout())
	assert.True(t, cfg.HasStaticLocation())
	assert.False(t, cfg.LocationEnabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	file := filepath.Join(dir, "vera.yaml")
	require.NoError(t, os.WriteFile(file, []byte("base_url: http://10.0.0.5:5000/api\nlocation_interval_seconds: 60\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000/api", cfg.BaseURL)
	assert.Equal(t, time.Minute, cfg.TrackerInterval())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("APP_ENV", "staging")

	_, err := Load("")
	assert.Error(t, err)
}
