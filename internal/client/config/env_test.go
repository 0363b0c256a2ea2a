package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("FAMILYTREE_SERVER_URL", "https://tree.example/api/")
	t.Setenv("FAMILYTREE_REQUEST_TIMEOUT", "3s")
	t.Setenv("FAMILYTREE_RETRY_DELAY", "250ms")

	cfg := &Config{DatabasePath: "keep.db", LogLevel: "info"}
	require.NotPanics(t, func() { parseEnv(cfg) })

	want := &Config{
		ServerURL:      "https://tree.example/api/",
		DatabasePath:   "keep.db",
		RequestTimeout: 3 * time.Second,
		RetryDelay:     250 * time.Millisecond,
		LogLevel:       "info",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_InvalidDurationPanics(t *testing.T) {
	t.Setenv("FAMILYTREE_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	require.Panics(t, func() { parseEnv(cfg) })
}
