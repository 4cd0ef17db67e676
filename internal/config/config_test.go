package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t2048.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEmbeddedDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Storage, cfg.Storage)
	assert.Equal(t, def.SSH, cfg.SSH)
	assert.Equal(t, def.Web, cfg.Web)
	assert.Equal(t, def.Input, cfg.Input)
	assert.Equal(t, "bright_magenta", cfg.UI.Theme["2048"])
	assert.True(t, cfg.UI.Mouse)
}

func TestLoadCustomPath(t *testing.T) {
	path := writeConfig(t, `
storage:
  db_path: /tmp/scores.db
web:
  session_ttl: 5m
input:
  web_swipe_threshold: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scores.db", cfg.Storage.DBPath)
	assert.Equal(t, 5*time.Minute, cfg.Web.SessionTTL)
	assert.Equal(t, 50, cfg.Input.WebSwipeThreshold)

	// Keys missing from the file keep their defaults.
	assert.Equal(t, Default().Web.Address, cfg.Web.Address)
	assert.Equal(t, Default().Input.SwipeThreshold, cfg.Input.SwipeThreshold)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "web: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "input:\n  swipe_threshold: 0\n"))
	assert.ErrorContains(t, err, "swipe_threshold")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDBPath, "/data/t2048.db")
	t.Setenv(EnvSSHAddr, ":2222")
	t.Setenv(EnvWebAddr, "127.0.0.1:9000")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/t2048.db", cfg.Storage.DBPath)
	assert.Equal(t, ":2222", cfg.SSH.Address)
	assert.Equal(t, "127.0.0.1:9000", cfg.Web.Address)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "T2048_TEST_DOTENV"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "none.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, false},
		{"empty ssh address", func(c *Config) { c.SSH.Address = "" }, false},
		{"empty web address", func(c *Config) { c.Web.Address = "" }, false},
		{"zero idle timeout", func(c *Config) { c.SSH.IdleTimeout = 0 }, false},
		{"negative ttl", func(c *Config) { c.Web.SessionTTL = -time.Second }, false},
		{"zero web threshold", func(c *Config) { c.Input.WebSwipeThreshold = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
