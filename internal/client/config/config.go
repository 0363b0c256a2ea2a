package config

import "time"

// Config holds runtime settings for the familytree client.
//
// Fields:
//   - ServerURL: root of the identity HTTP API, e.g. http://127.0.0.1:8000/api/.
//   - DatabasePath: SQLite file holding the cached user and session token.
//     Empty keeps the session in memory only.
//   - RequestTimeout: upper bound for a single API request.
//   - RetryDelay: pause before the startup fetch's one retry.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	RetryDelay     time.Duration `env:"RETRY_DELAY"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000/api/"
	c.DatabasePath = "familytree.db"
	c.RequestTimeout = 10 * time.Second
	c.RetryDelay = 500 * time.Millisecond
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
