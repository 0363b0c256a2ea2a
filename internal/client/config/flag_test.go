package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := Config{
		ServerURL:      "http://127.0.0.1:8000/api/",
		DatabasePath:   "familytree.db",
		RequestTimeout: 1500 * time.Millisecond,
		LogLevel:       "info",
	}

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "https://x.example/api/", "-d", "x.db", "-t", "5", "-l", "debug"},
			expected: &Config{ServerURL: "https://x.example/api/", DatabasePath: "x.db", RequestTimeout: 5 * time.Second, LogLevel: "debug"}},
		{name: "no flags keeps sub-second timeout", args: []string{"cmd"},
			expected: &Config{ServerURL: "http://127.0.0.1:8000/api/", DatabasePath: "familytree.db", RequestTimeout: 1500 * time.Millisecond, LogLevel: "info"}},
		{name: "unrelated flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "-d=mem.db"},
			expected: &Config{ServerURL: "http://127.0.0.1:8000/api/", DatabasePath: "mem.db", RequestTimeout: 1500 * time.Millisecond, LogLevel: "info"}},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := base

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(&config) })
				assert.Empty(t, cmp.Diff(tt.expected, &config))
			} else {
				require.Panics(t, func() { parseFlags(&config) })
			}
		})
	}
}
