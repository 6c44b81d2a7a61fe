package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig is the on-disk shape of the config file.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
// Read or decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
