// Package config builds the runtime configuration from defaults, an optional
// JSON file, LOFS_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/dbx"
)

// Config holds runtime settings.
//
// Fields:
//   - Driver: database/sql driver name, "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - DatabaseDSN: data source name for Driver. SQLite DSNs get
//     _pragma=foreign_keys(1) appended by dbx.Open when they do not set it.
//   - QueryTimeout: upper bound for a single storage operation.
//   - SearchDebounce: quiet period before an interactive search is executed.
//   - LogLevel / LogFormat: slog level name and "json" or "text".
type Config struct {
	Driver         string        `env:"LOFS_DB_DRIVER"`
	DatabaseDSN    string        `env:"LOFS_DATABASE_DSN"`
	QueryTimeout   time.Duration `env:"LOFS_QUERY_TIMEOUT"`
	SearchDebounce time.Duration `env:"LOFS_SEARCH_DEBOUNCE"`
	LogLevel       string        `env:"LOFS_LOG_LEVEL"`
	LogFormat      string        `env:"LOFS_LOG_FORMAT"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Driver = dbx.DriverSQLite
	c.DatabaseDSN = "file:lostfound.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.QueryTimeout = 5 * time.Second
	c.SearchDebounce = 150 * time.Millisecond
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Driver {
	case dbx.DriverSQLite, dbx.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is empty")
	}
	if c.QueryTimeout < 0 || c.SearchDebounce < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying the JSON
// file named by -c/-config, the environment, and finally flags from args
// (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
