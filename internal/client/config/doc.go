// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL (including /v1/)
//	-t int      request timeout (seconds)
//	-d string   session database path
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text, json, zerolog
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:3501/v1/",
//	  "request_timeout": "30s",
//	  "database_path": "storefront.db",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Durations accept "30s"-style strings or integer nanoseconds. Empty JSON
// fields leave the previous value untouched.
package config
