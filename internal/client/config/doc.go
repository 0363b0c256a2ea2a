// Package config loads runtime configuration for the familytree client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. FAMILYTREE_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   identity API root URL
//	-d string   local database path
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000/api/",
//	  "database_path": "familytree.db",
//	  "request_timeout": "10s",
//	  "retry_delay": "500ms",
//	  "log_level": "info"
//	}
//
// Environment variables: FAMILYTREE_SERVER_URL, FAMILYTREE_DATABASE_PATH,
// FAMILYTREE_REQUEST_TIMEOUT, FAMILYTREE_RETRY_DELAY, FAMILYTREE_LOG_LEVEL.
package config
