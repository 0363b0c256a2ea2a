package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name read by parseEnv.
const EnvPrefix = "FAMILYTREE_"

// parseEnv overlays Config with FAMILYTREE_* environment variables. Unset
// variables leave the current value alone. Durations use Go syntax ("3s").
// Panics on values that cannot be parsed.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
