package config

import "time"

// Config holds runtime settings for the storefront CLI.
//
// Fields:
//   - BaseURL: API root including the version segment, e.g. http://host:3501/v1/.
//   - RequestTimeout: applied once to the HTTP client, not per call.
//   - DatabasePath: SQLite file holding the persisted session.
//   - LogLevel / LogFormat: see logging.New.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabasePath   string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:3501/v1/"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "storefront.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
