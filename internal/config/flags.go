package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-driver string      database driver ("sqlite" or "pgx")
//	-d string           database DSN
//	-t duration         per-query timeout (e.g. "3s")
//	-b duration         search debounce window (e.g. "150ms")
//	-l string           log level
//	-f string           log format ("json" or "text")
//
// Only these flags are considered; -c/-config is handled by parseJSON.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-driver", "-d", "-t", "-b", "-l", "-f"})

	fs := flag.NewFlagSet("lofs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "database driver (sqlite, pgx)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.DurationVar(&cfg.QueryTimeout, "t", cfg.QueryTimeout, "per-query timeout")
	fs.DurationVar(&cfg.SearchDebounce, "b", cfg.SearchDebounce, "search debounce window")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (json, text)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
