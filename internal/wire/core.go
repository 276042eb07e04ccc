package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/promptdeck/internal/adapter/memory"
	pgdb "github.com/alanyang/promptdeck/internal/adapter/postgres"
	pgeventbus "github.com/alanyang/promptdeck/internal/adapter/postgres/eventbus"
	pgsettings "github.com/alanyang/promptdeck/internal/adapter/postgres/settings"
	"github.com/alanyang/promptdeck/internal/adapter/sqlite"
	templateadapter "github.com/alanyang/promptdeck/internal/adapter/template"
	"github.com/alanyang/promptdeck/internal/config"
	"github.com/alanyang/promptdeck/internal/domain/event"
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	porteventbus "github.com/alanyang/promptdeck/internal/port/eventbus"
	"github.com/alanyang/promptdeck/internal/port/storage"
	"github.com/alanyang/promptdeck/internal/service/composer"
	"github.com/alanyang/promptdeck/internal/service/persist"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
	themesvc "github.com/alanyang/promptdeck/internal/service/theme"
)

// Core is the part of the application shared by the server and the CLI:
// storage, the event bus, both stores with their persisters, and the composer.
type Core struct {
	// ID identifies this process on the event bus.
	ID          string
	Storage     storage.Storage
	Bus         porteventbus.EventBus
	Pool        *pgxpool.Pool // nil unless the postgres backend is used
	Templates   *templateadapter.Registry
	Prompts     *promptsvc.Store
	PromptSaver *persist.Persister
	Themes      *themesvc.Store
	ThemeSaver  *persist.Persister
	Composer    *composer.Service

	closers []func()
}

// BuildCore opens the configured storage and loads every store from it.
// Corrupt snapshots are logged and replaced by defaults; they never fail the build.
func BuildCore(ctx context.Context, cfg config.Config) (*Core, error) {
	c := &Core{ID: uuid.NewString()}

	// ── Storage ──────────────────────────────────────────────────────────────
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		c.Storage = memory.NewStorage()
		c.Bus = memory.NewEventBus()
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		c.Storage = db
		c.closers = append(c.closers, func() {
			if err := db.Close(); err != nil {
				slog.Error("closing sqlite storage", "error", err)
			}
		})
		// Appended after the storage closer so pollers stop before the file closes.
		bus := sqlite.NewEventBus(db, cfg.EventPoll())
		c.Bus = bus
		c.closers = append(c.closers, bus.Close)
		slog.Info("using sqlite storage", "path", db.Path())
	case config.StoragePostgres:
		pool, err := pgdb.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		c.Pool = pool
		c.Storage = pgsettings.New(pool)
		c.Bus = pgeventbus.New(pool)
		c.closers = append(c.closers, pool.Close)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// ── Templates ────────────────────────────────────────────────────────────
	reg, err := templateadapter.New(cfg.Template.Dir)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("loading template catalog: %w", err)
	}
	c.Templates = reg

	// ── Stores ───────────────────────────────────────────────────────────────
	c.Prompts = promptsvc.NewStore()
	ignoreReadError(c.Prompts.Load(ctx, c.Storage))
	c.PromptSaver = persist.New(c.Storage, promptsvc.StorageKey, c.Prompts.Encode, cfg.Debounce())
	c.PromptSaver.OnSaved(c.announceSaved)
	c.Prompts.Attach(c.PromptSaver)

	c.Themes = themesvc.NewStore()
	ignoreReadError(c.Themes.Load(ctx, c.Storage))
	c.ThemeSaver = persist.New(c.Storage, themesvc.StorageKey, c.Themes.Encode, cfg.Debounce())
	c.ThemeSaver.OnSaved(c.announceSaved)
	c.Themes.Attach(c.ThemeSaver)

	c.Composer = composer.NewService(c.Templates, c.Storage)
	ignoreReadError(c.Composer.Load(ctx))
	if id := cfg.Template.ID; id != "" && id != domaintemplate.DefaultID && c.Composer.Selected() == domaintemplate.DefaultID {
		if err := c.Composer.SelectTemplate(ctx, id); err != nil {
			slog.Warn("configured template not selected", "template", id, "error", err)
		}
	}
	c.Composer.Subscribe(func(string) {
		c.announceSaved(context.Background(), composer.StorageKey)
	})

	return c, nil
}

// announceSaved tells other processes sharing the storage that key was
// rewritten, so they can reload it.
func (c *Core) announceSaved(ctx context.Context, key string) {
	e := event.New(event.TypeSnapshotSaved, 0, key).From(c.ID)
	if err := c.Bus.Publish(ctx, e); err != nil {
		slog.Warn("announcing saved snapshot", "key", key, "error", err)
	}
}

// ignoreReadError drops errors already logged by the stores. Anything that
// is not a read failure is logged here.
func ignoreReadError(err error) {
	var re *persist.ReadError
	if err != nil && !errors.As(err, &re) {
		slog.Warn("loading state", "error", err)
	}
}

// Flush writes any pending debounced save. Stores without a pending change
// are left untouched, including a corrupt snapshot kept from Load.
func (c *Core) Flush(ctx context.Context) error {
	return errors.Join(c.PromptSaver.Flush(ctx), c.ThemeSaver.Flush(ctx))
}

// Close releases storage resources in reverse order of acquisition.
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
