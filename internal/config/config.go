// Package config loads runtime settings from an optional TOML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// EnvConfigPath names the config file when no path is passed to Load.
const EnvConfigPath = "PROMPTDECK_CONFIG"

type Config struct {
	Port     string         `toml:"port"`
	LogLevel string         `toml:"log_level"`
	Storage  StorageConfig  `toml:"storage"`
	Template TemplateConfig `toml:"template"`
}

type StorageConfig struct {
	Backend     string `toml:"backend"`
	DatabaseURL string `toml:"database_url"`
	SQLitePath  string `toml:"sqlite_path"`
	// DebounceMS is the quiet period before a debounced save, in milliseconds.
	DebounceMS int `toml:"debounce_ms"`
	// EventPollMS is how often a SQLite-backed process looks for changes
	// written by other processes, in milliseconds.
	EventPollMS int `toml:"event_poll_ms"`
}

type TemplateConfig struct {
	Dir string `toml:"dir"`
	// ID is the legacy template selected on first start.
	ID string `toml:"id"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Storage: StorageConfig{
			Backend:     StorageSQLite,
			DebounceMS:  50,
			EventPollMS: 500,
		},
		Template: TemplateConfig{ID: "default"},
	}
}

// Load reads path (or $PROMPTDECK_CONFIG when path is empty) over the
// defaults, then applies environment overrides. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Storage.Backend, "STORAGE")
	setString(&cfg.Storage.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Template.Dir, "TEMPLATE_DIR")
	setString(&cfg.Template.ID, "TEMPLATE_ID")

	if err := setInt(&cfg.Storage.DebounceMS, "SAVE_DEBOUNCE_MS"); err != nil {
		return err
	}
	return setInt(&cfg.Storage.EventPollMS, "EVENT_POLL_MS")
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks the backend choice and its required settings.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage backend %q requires DATABASE_URL", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.Storage.DebounceMS)
	}
	if c.Storage.EventPollMS < 0 {
		return fmt.Errorf("event_poll_ms must not be negative, got %d", c.Storage.EventPollMS)
	}
	return nil
}

// Debounce returns the save debounce delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Storage.DebounceMS) * time.Millisecond
}

// EventPoll returns the SQLite event polling interval.
func (c Config) EventPoll() time.Duration {
	return time.Duration(c.Storage.EventPollMS) * time.Millisecond
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
