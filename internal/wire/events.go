package wire

import (
	"context"
	"log/slog"

	"github.com/alanyang/promptdeck/internal/domain/event"
	"github.com/alanyang/promptdeck/internal/service/composer"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
	themesvc "github.com/alanyang/promptdeck/internal/service/theme"
)

// startEvents connects the stores to the rest of the application:
//   - every store change is published on the event bus (the router bridges
//     the bus to WebSocket clients);
//   - a change of the current theme is applied to the presentation hub;
//   - prompt changes are pushed to MCP sessions;
//   - snapshots saved by another process (the CLI, another server) are reloaded.
func startEvents(ctx context.Context, app *App) {
	publish := func(e event.Event) {
		if err := app.EventBus.Publish(ctx, e.From(app.ID)); err != nil {
			slog.Error("events: publish failed", "type", e.Type, "error", err)
		}
	}

	app.Prompts.Subscribe(func(version uint64) {
		publish(event.New(event.TypePromptConfigChanged, version, ""))
	})

	app.Composer.Subscribe(func(id string) {
		publish(event.New(event.TypeTemplateSelected, app.Prompts.Version(), id))
	})

	app.Themes.Subscribe(func(ch themesvc.Change) {
		applyTheme(ctx, app, ch)
		publish(event.New(event.TypeThemeChanged, ch.Version, ch.CurrentID))
	})

	// Prompt events may come from another instance on a shared bus.
	if _, err := app.EventBus.Subscribe(ctx, event.ChannelPrompt, func(ctx context.Context, e event.Event) {
		if err := app.MCPServer.Registry().NotifyPromptChanged(ctx, e.Version); err != nil {
			slog.Warn("events: notifying mcp sessions failed", "error", err)
		}
	}); err != nil {
		slog.Error("events: failed to subscribe to prompt channel", "error", err)
	}

	if _, err := app.EventBus.Subscribe(ctx, event.ChannelStorage, func(ctx context.Context, e event.Event) {
		if e.Origin == app.ID {
			return
		}
		if ev, ok := reloadSnapshot(ctx, app, e.EntityID); ok {
			publish(ev)
		}
	}); err != nil {
		slog.Error("events: failed to subscribe to storage channel", "error", err)
	}
}

func applyTheme(ctx context.Context, app *App, ch themesvc.Change) {
	if !ch.CurrentChanged {
		return
	}
	if err := app.Themes.Apply(ctx, app.Hub); err != nil {
		slog.Error("events: applying theme failed", "theme_id", ch.CurrentID, "error", err)
	}
}

// reloadSnapshot adopts the snapshot another process saved under key and
// returns the change event to publish for it. While this process still has
// an unsaved change to the same snapshot the reload is skipped: the pending
// save will overwrite the stored value anyway.
func reloadSnapshot(ctx context.Context, app *App, key string) (event.Event, bool) {
	log := slog.With("key", key)
	switch key {
	case promptsvc.StorageKey:
		if app.PromptSaver.Status().Pending {
			log.Warn("events: external save ignored, local change pending")
			return event.Event{}, false
		}
		version, err := app.Prompts.Reload(ctx, app.Storage)
		if err != nil {
			log.Error("events: reloading prompt config failed", "error", err)
			return event.Event{}, false
		}
		log.Info("events: prompt config reloaded", "version", version)
		return event.New(event.TypePromptConfigChanged, version, ""), true

	case themesvc.StorageKey:
		if app.ThemeSaver.Status().Pending {
			log.Warn("events: external save ignored, local change pending")
			return event.Event{}, false
		}
		ch, err := app.Themes.Reload(ctx, app.Storage)
		if err != nil {
			log.Error("events: reloading themes failed", "error", err)
			return event.Event{}, false
		}
		applyTheme(ctx, app, ch)
		log.Info("events: themes reloaded", "theme_id", ch.CurrentID)
		return event.New(event.TypeThemeChanged, ch.Version, ch.CurrentID), true

	case composer.StorageKey:
		if err := app.Composer.Load(ctx); err != nil {
			return event.Event{}, false
		}
		id := app.Composer.Selected()
		log.Info("events: template selection reloaded", "template", id)
		return event.New(event.TypeTemplateSelected, app.Prompts.Version(), id), true
	}
	return event.Event{}, false
}
