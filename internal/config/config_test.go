package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseJSON_OverlaysOnlyPresentFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"db_driver":       "pgx",
		"database_dsn":    "postgres://u:p@localhost:5432/lofs",
		"query_timeout":   "2s",
		"search_debounce": 50000000,
	})

	cfg := defaults()
	require.NoError(t, parseJSON(cfg, []string{"-config", path}))

	assert.Equal(t, "pgx", cfg.Driver)
	assert.Equal(t, "postgres://u:p@localhost:5432/lofs", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "info", cfg.LogLevel, "absent field keeps default")
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestParseJSON_NoFileFlagLeavesConfigUntouched(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseJSON(cfg, []string{"-d", "x.db"}))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseJSON_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := parseJSON(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.ErrorContains(t, err, "read config file")
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		err := parseJSON(defaults(), []string{"-c", bad})
		require.ErrorContains(t, err, "parse config file")
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv("LOFS_DB_DRIVER", "pgx")
	t.Setenv("LOFS_QUERY_TIMEOUT", "750ms")
	t.Setenv("LOFS_LOG_LEVEL", "debug")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "pgx", cfg.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, defaults().DatabaseDSN, cfg.DatabaseDSN)
}

func TestParseEnv_BadDuration(t *testing.T) {
	t.Setenv("LOFS_SEARCH_DEBOUNCE", "later")
	require.Error(t, parseEnv(defaults()))
}

func TestParseFlags(t *testing.T) {
	cfg := defaults()
	args := []string{"-driver", "pgx", "-d", "postgres://db", "-t", "3s", "-b", "20ms", "-l", "warn", "-f", "json", "-x", "ignored"}

	require.NoError(t, parseFlags(cfg, args))

	want := &Config{
		Driver:         "pgx",
		DatabaseDSN:    "postgres://db",
		QueryTimeout:   3 * time.Second,
		SearchDebounce: 20 * time.Millisecond,
		LogLevel:       "warn",
		LogFormat:      "json",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags_BadDuration(t *testing.T) {
	require.Error(t, parseFlags(defaults(), []string{"-t", "forever"}))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"log_level":     "error",
		"query_timeout": "1s",
		"log_format":    "json",
	})
	t.Setenv("LOFS_LOG_LEVEL", "warn")
	t.Setenv("LOFS_QUERY_TIMEOUT", "4s")

	cfg, err := LoadConfig([]string{"-c", path, "-t", "9s"})
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat, "json over defaults")
	assert.Equal(t, "warn", cfg.LogLevel, "env over json")
	assert.Equal(t, 9*time.Second, cfg.QueryTimeout, "flags over env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "postgres", mutate: func(c *Config) { c.Driver = "pgx" }, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Driver = "mysql" }},
		{name: "empty dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }},
		{name: "negative timeout", mutate: func(c *Config) { c.QueryTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadConfig_InvalidDriverFlag(t *testing.T) {
	_, err := LoadConfig([]string{"-driver", "oracle"})
	require.ErrorContains(t, err, "unsupported database driver")
}
