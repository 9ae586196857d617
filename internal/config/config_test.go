package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	previous := DefaultPath
	DefaultPath = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { DefaultPath = previous })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeFile(t, `
server:
  port: 8080
database:
  driver: postgres
  dsn: postgres://file
store:
  timeout: 2s
rate_limit:
  requests_per_second: 5
`)
	t.Setenv("CATALOG_DATABASE_DSN", "postgres://env")
	t.Setenv("CATALOG_RATE_LIMIT_BURST", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }},
		{"zero timeout", func(c *Config) { c.Store.Timeout = 0 }},
		{"negative burst", func(c *Config) { c.RateLimit.Burst = -1 }},
		{"zero upload size", func(c *Config) { c.Uploads.MaxBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
