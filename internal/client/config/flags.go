package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/familytree/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   identity API root URL
//	-d string   local database path ("" keeps the session in memory)
//	-t int      request timeout in seconds
//	-l string   log level
//
// os.Args is filtered down to these flags first so that -c and friends do
// not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "identity API root URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		}
	})
}
