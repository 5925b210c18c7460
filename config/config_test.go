package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DEFAULT_LISTEN_ADDR, cfg.Server.ListenAddr)
	assert.Equal(t, REDIS_DB_ADDRESS, cfg.Cache.RedisAddr)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, int64(DEFAULT_SYNTHETIC_SEED), cfg.Synthetic.Seed)
	assert.Equal(t, SERIES_REFRESHER_SCHEDULE, cfg.Refresher.Schedule)
}

func TestLoad_File(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
server:
  listen_addr: ":9090"
  shutdown_timeout: 2s
data:
  dir: /srv/data
cache:
  enabled: true
  redis_addr: cache:6379
  ttl: 1h
refresher:
  schedule: "*/5 * * * *"
synthetic:
  seed: 7
  bank_annual_total: 1000000
`)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/srv/data", cfg.Data.Dir)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "*/5 * * * *", cfg.Refresher.Schedule)
	assert.True(t, cfg.Refresher.Enabled, "unset keys keep defaults")
	assert.Equal(t, int64(7), cfg.Synthetic.Seed)
	assert.Equal(t, 1_000_000.0, cfg.Synthetic.BankAnnualTotal)
	assert.Equal(t, DEFAULT_SYNTHETIC_YEAR, cfg.Synthetic.Year)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_addr: \":9090\"\n")
	t.Setenv(ENV_LISTEN_ADDR, ":7070")
	t.Setenv(ENV_DATA_URL, "https://data.example.com")
	t.Setenv(ENV_REDIS_ADDR, "localhost:6380")
	t.Setenv(ENV_CACHE_ENABLED, "true")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
	assert.Equal(t, "https://data.example.com", cfg.Data.BaseURL)
	assert.Equal(t, "localhost:6380", cfg.Cache.RedisAddr)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "malformed yaml", content: "server: [unclosed"},
		{name: "empty listen addr", content: "server:\n  listen_addr: \"\"\n"},
		{name: "negative total", content: "synthetic:\n  bank_annual_total: -1\n"},
		{name: "cache without redis", content: "cache:\n  enabled: true\n  redis_addr: \"\"\n"},
		{name: "bad env bool", content: "", env: map[string]string{ENV_CACHE_ENABLED: "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestGetResourcePath(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "/opt/place")

	assert.Equal(t, "/opt/place/resources/aktorer.json", GetResourcePath(ACTORS_RESOURCE))
	assert.Equal(t, "aktorer-sentrum.json", AreaActorsResource("sentrum"))
}
