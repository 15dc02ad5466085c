package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
	"github.com/dmitrijs2005/lostfound/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Durations accept
// "250ms"-style strings or integer nanoseconds.
type JSONConfig struct {
	Driver         string         `json:"db_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	QueryTimeout   timex.Duration `json:"query_timeout"`
	SearchDebounce timex.Duration `json:"search_debounce"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
}

// parseJSON overlays values from the file named by -c/-config. Fields absent
// from the file keep their current value.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.Driver != "" {
		cfg.Driver = c.Driver
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.QueryTimeout.Duration != 0 {
		cfg.QueryTimeout = c.QueryTimeout.Duration
	}
	if c.SearchDebounce.Duration != 0 {
		cfg.SearchDebounce = c.SearchDebounce.Duration
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.LogFormat = c.LogFormat
	}
	return nil
}
