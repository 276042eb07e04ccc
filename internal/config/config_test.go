package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/promptdeck/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "STORAGE", "DATABASE_URL", "SQLITE_PATH",
		"SAVE_DEBOUNCE_MS", "EVENT_POLL_MS", "TEMPLATE_DIR", "TEMPLATE_ID", config.EnvConfigPath,
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "promptdeck.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 500*time.Millisecond, cfg.EventPoll())
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.StorageSQLite, cfg.Storage.Backend)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port = "9000"
log_level = "debug"

[storage]
backend = "memory"
debounce_ms = 200

[template]
dir = "/etc/promptdeck/templates"
id = "optimized"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, config.StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce())
	assert.Equal(t, "/etc/promptdeck/templates", cfg.Template.Dir)
	assert.Equal(t, "optimized", cfg.Template.ID)

	t.Setenv("PORT", "7000")
	t.Setenv("SAVE_DEBOUNCE_MS", "10")
	t.Setenv("EVENT_POLL_MS", "25")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 10*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 25*time.Millisecond, cfg.EventPoll())
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvConfigPath, writeFile(t, `port = "1234"`))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "1234", cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "malformed toml", file: `port = `},
		{name: "unknown backend", env: map[string]string{"STORAGE": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORAGE": "postgres"}},
		{name: "non-numeric debounce", env: map[string]string{"SAVE_DEBOUNCE_MS": "soon"}},
		{name: "negative debounce", env: map[string]string{"SAVE_DEBOUNCE_MS": "-1"}},
		{name: "non-numeric poll interval", env: map[string]string{"EVENT_POLL_MS": "often"}},
		{name: "negative poll interval", env: map[string]string{"EVENT_POLL_MS": "-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_PostgresWithURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/promptdeck")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Backend)
}
