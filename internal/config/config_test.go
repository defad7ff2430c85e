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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultSearchURL, cfg.API.SearchURL)
	assert.Equal(t, float32(400), cfg.Window.Width)
	assert.Equal(t, float32(620), cfg.Window.Height)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  search_url: http://localhost:8080/v1/cards
  timeout: 3s
logging:
  level: debug
  json: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1/cards", cfg.API.SearchURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)

	// untouched keys keep their defaults
	assert.Equal(t, 672, cfg.Image.MaxWidth)
	assert.Equal(t, "mtg-card-searcher/1.0", cfg.API.UserAgent)
}

func TestLoadFileEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")
	t.Setenv("MTG_LOGGING_LEVEL", "error")
	t.Setenv("MTG_API_TIMEOUT", "7s")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "api:\n  search_url: not a url\n")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ftp scheme", func(c *Config) { c.API.SearchURL = "ftp://example.com/cards" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative width", func(c *Config) { c.Image.MaxWidth = -1 }},
		{"zero bytes", func(c *Config) { c.Image.MaxBytes = 0 }},
		{"zero window", func(c *Config) { c.Window.Height = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
