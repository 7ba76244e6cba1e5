// Package config loads runtime configuration for the AceMate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config.
//  3. Command-line flags, applied by the cobra root command, which override
//     earlier values.
//
// There is exactly one configured backend endpoint; switching between a
// local and a deployed backend is done through the config file or the -a
// flag, never by editing code.
package config

import "time"

// Config holds runtime settings for the AceMate CLI.
type Config struct {
	// APIBaseURL is the backend origin, e.g. "http://localhost:8000".
	APIBaseURL string

	// RequestTimeout bounds each HTTP request.
	RequestTimeout time.Duration

	// SessionDBPath is the sqlite file holding the persisted session.
	SessionDBPath string

	// FlashDelay is how long inline business-error messages stay visible
	// before the prompt clears them.
	FlashDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.SessionDBPath = "acemate.db"
	c.FlashDelay = 5 * time.Second
}

// Load constructs a Config from defaults overlaid with the JSON file at
// path, when path is non-empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
