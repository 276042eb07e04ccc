package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alanyang/promptdeck/internal/config"
	porteventbus "github.com/alanyang/promptdeck/internal/port/eventbus"
	"github.com/alanyang/promptdeck/internal/transport"
	mcptransport "github.com/alanyang/promptdeck/internal/transport/mcp"
	wshandler "github.com/alanyang/promptdeck/internal/transport/ws"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	*Core
	Server    *http.Server
	Hub       *wshandler.Hub
	EventBus  porteventbus.EventBus
	MCPServer *mcptransport.Server

	// stop ends background work (bus subscriptions, template watcher).
	stop context.CancelFunc
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	core, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, stop := context.WithCancel(ctx)

	// SQLite and Postgres buses reach every process sharing the storage.
	eventBus := core.Bus

	// ── Presentation ─────────────────────────────────────────────────────────
	hub := wshandler.NewHub()
	hub.SetGreeting(func() any {
		return wshandler.ThemeMessage{Type: wshandler.TypeThemeVariables, Variables: core.Themes.Current().Variables()}
	})

	mcpServer := mcptransport.New(core.Prompts, core.Composer)

	app := &App{
		Core:      core,
		Hub:       hub,
		EventBus:  eventBus,
		MCPServer: mcpServer,
		stop:      stop,
	}

	startEvents(ctx, app)

	if cfg.Template.Dir != "" {
		go func() {
			if err := core.Templates.Watch(ctx); err != nil {
				slog.Error("template watcher stopped", "dir", cfg.Template.Dir, "error", err)
			}
		}()
	}

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(ctx, transport.Services{
		Prompts:    core.Prompts,
		PromptSave: core.PromptSaver,
		Composer:   core.Composer,
		Themes:     core.Themes,
		Hub:        hub,
		EventBus:   eventBus,
		MCP:        mcpServer.Handler(),
	})

	app.Server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	slog.Info("application wired", "port", cfg.Port, "storage", cfg.Storage.Backend)
	return app, nil
}

// Shutdown stops background work, flushes pending saves and releases storage.
// The Postgres pool only closes once every LISTEN connection is released.
func (a *App) Shutdown(ctx context.Context) error {
	a.stop()
	defer a.Core.Close()
	if err := a.Core.Flush(ctx); err != nil {
		return fmt.Errorf("flushing pending saves: %w", err)
	}
	return nil
}
