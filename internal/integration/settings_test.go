//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/promptdeck/internal/config"
	"github.com/alanyang/promptdeck/internal/domain/event"
	"github.com/alanyang/promptdeck/internal/service/composer"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
	themesvc "github.com/alanyang/promptdeck/internal/service/theme"
	"github.com/alanyang/promptdeck/internal/testutil"
	"github.com/alanyang/promptdeck/internal/wire"
)

// ── test harness ──────────────────────────────────────────────────────────────

// newPostgresConfig clears the settings rows this suite touches and returns a
// config pointing at the test database.
func newPostgresConfig(t *testing.T) config.Config {
	t.Helper()
	pool := testutil.SetupTestDB(t)
	_, err := pool.Exec(context.Background(),
		`DELETE FROM settings WHERE key = ANY($1)`,
		[]string{promptsvc.StorageKey, themesvc.StorageKey, composer.StorageKey},
	)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Storage.Backend = config.StoragePostgres
	cfg.Storage.DatabaseURL = os.Getenv("TEST_DATABASE_URL")
	cfg.Storage.DebounceMS = 10
	return cfg
}

func send(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

// ── scenarios ─────────────────────────────────────────────────────────────────

// A role toggled over HTTP is durable before the response and survives a restart.
func TestRoleToggle_PersistsAcrossRestart(t *testing.T) {
	cfg := newPostgresConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := wire.Build(ctx, cfg)
	require.NoError(t, err)

	w := send(t, app.Server.Handler, http.MethodPatch, "/api/prompt-config/roles/architect", map[string]any{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, app.Shutdown(context.Background()))

	core, err := wire.BuildCore(context.Background(), cfg)
	require.NoError(t, err)
	defer core.Close()

	roles := core.Prompts.Snapshot().Roles
	require.Len(t, roles, 2)
	assert.True(t, roles[1].Enabled)
}

// Debounced edits are flushed on shutdown.
func TestCustomTheme_FlushedOnShutdown(t *testing.T) {
	cfg := newPostgresConfig(t)
	cfg.Storage.DebounceMS = int(time.Hour / time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := wire.Build(ctx, cfg)
	require.NoError(t, err)

	w := send(t, app.Server.Handler, http.MethodPost, "/api/themes/custom",
		map[string]any{"primary": "#FF0066", "background": "#0A0A0A", "name": "Neon", "select": true})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, app.ThemeSaver.Status().Pending)
	require.NoError(t, app.Shutdown(context.Background()))

	core, err := wire.BuildCore(context.Background(), cfg)
	require.NoError(t, err)
	defer core.Close()

	assert.Equal(t, "Neon", core.Themes.Current().Name)
	assert.Len(t, core.Themes.Custom(), 1)
}

// Store changes travel through LISTEN/NOTIFY to subscribers.
func TestEvents_DeliveredThroughPostgres(t *testing.T) {
	cfg := newPostgresConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := wire.Build(ctx, cfg)
	require.NoError(t, err)
	defer app.Shutdown(context.Background()) //nolint:errcheck

	received := make(chan event.Event, 4)
	_, err = app.EventBus.Subscribe(ctx, event.ChannelTheme, func(_ context.Context, e event.Event) {
		received <- e
	})
	require.NoError(t, err)

	require.True(t, app.Themes.SetTheme("dark-green"))

	select {
	case e := <-received:
		assert.Equal(t, event.TypeThemeChanged, e.Type)
		assert.Equal(t, "dark-green", e.EntityID)
	case <-time.After(5 * time.Second):
		t.Fatal("theme_changed event not delivered")
	}
}
