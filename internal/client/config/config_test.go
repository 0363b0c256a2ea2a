package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000/api/", c.ServerURL)
	assert.Equal(t, "familytree.db", c.DatabasePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, c.RetryDelay)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://json.example/api/",
		"database_path": "json.db",
		"retry_delay": "2s",
		"log_level": "warn"
	}`), 0o600))

	t.Setenv("FAMILYTREE_DATABASE_PATH", "env.db")
	t.Setenv("FAMILYTREE_LOG_LEVEL", "error")

	os.Args = []string{"cmd", "-c", path, "-l", "debug"}

	cfg := LoadConfig()

	assert.Equal(t, "http://json.example/api/", cfg.ServerURL, "json over defaults")
	assert.Equal(t, 2*time.Second, cfg.RetryDelay, "json over defaults")
	assert.Equal(t, "env.db", cfg.DatabasePath, "env over json")
	assert.Equal(t, "debug", cfg.LogLevel, "flags over env")
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout, "untouched default")
}
