package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// duration accepts either a string like "30s" or integer nanoseconds, so
// config files stay readable.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", data)
	}
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the existing Config value in place.
type jsonConfig struct {
	APIBaseURL     string   `json:"api_base_url"`
	RequestTimeout duration `json:"request_timeout"`
	SessionDBPath  string   `json:"session_db_path"`
	FlashDelay     duration `json:"flash_delay"`
}

// parseJSON overlays cfg with values from the JSON file at path. An empty
// path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.FlashDelay.Duration != 0 {
		cfg.FlashDelay = jc.FlashDelay.Duration
	}
	return nil
}
