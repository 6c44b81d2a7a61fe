package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags overlays cfg with values from the flags this package owns.
// Other flags in os.Args are filtered out first. Parse errors panic, as
// there is no sensible way to continue with a half-applied command line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
