package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alanyang/promptdeck/internal/domain/prompt"
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	"github.com/alanyang/promptdeck/internal/port/storage"
	porttemplate "github.com/alanyang/promptdeck/internal/port/template"
	"github.com/alanyang/promptdeck/internal/service/notify"
	"github.com/alanyang/promptdeck/internal/service/persist"
)

// StorageKey holds the id of the selected legacy template.
const StorageKey = "bolt-prompt-template"

// Service composes system messages on top of the legacy template registry
// and tracks which template is selected.
type Service struct {
	registry porttemplate.Registry
	store    storage.Storage

	mu       sync.RWMutex
	selected string

	listeners notify.List[string]
}

func NewService(registry porttemplate.Registry, store storage.Storage) *Service {
	return &Service{registry: registry, store: store, selected: domaintemplate.DefaultID}
}

// Load restores the selected template id. Missing or blank values keep the default.
func (s *Service) Load(ctx context.Context) error {
	data, err := persist.Load(ctx, s.store, StorageKey)
	if err != nil {
		slog.Warn("loading selected template, using default", "error", err)
		return err
	}
	if id := strings.TrimSpace(string(data)); id != "" {
		s.mu.Lock()
		s.selected = id
		s.mu.Unlock()
	}
	return nil
}

func (s *Service) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *Service) Templates() []domaintemplate.Summary {
	return s.registry.List()
}

// SelectTemplate checks id against the registry and persists it.
func (s *Service) SelectTemplate(ctx context.Context, id string) error {
	known := false
	for _, t := range s.registry.List() {
		if t.ID == id {
			known = true
			break
		}
	}
	if !known {
		return &domaintemplate.LookupError{ID: id, Err: domaintemplate.ErrUnknownTemplate}
	}

	if err := s.store.Put(ctx, StorageKey, []byte(id)); err != nil {
		return &persist.WriteError{Key: StorageKey, Err: err}
	}

	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()

	s.listeners.Notify(id)
	return nil
}

// Subscribe registers fn to run after every successful selection.
func (s *Service) Subscribe(fn func(id string)) func() {
	return s.listeners.Add(fn)
}

// Compose is the plain composition of cfg.
func (s *Service) Compose(cfg prompt.Config) string {
	return prompt.Compose(cfg)
}

// ComposeEnhanced uses the selected legacy template as the base when the
// system prompt is the default one or disabled. A lookup failure is returned
// alongside a usable text built on the raw system prompt content.
func (s *Service) ComposeEnhanced(cfg prompt.Config, rc domaintemplate.RenderContext) (string, error) {
	id := s.Selected()
	text, err := prompt.ComposeEnhanced(cfg, func() (string, error) {
		return s.registry.Resolve(id, rc)
	})
	if err != nil {
		var le *domaintemplate.LookupError
		if !errors.As(err, &le) {
			err = &domaintemplate.LookupError{ID: id, Err: err}
		}
		slog.Warn("legacy template lookup failed, using raw system prompt", "template", id, "error", err)
	}
	return text, err
}

func (s *Service) Info(cfg prompt.Config) prompt.Info {
	return prompt.Describe(cfg)
}

// Summary renders a one-line description of the active customizations.
func (s *Service) Summary(cfg prompt.Config) string {
	info := prompt.Describe(cfg)

	var parts []string
	if info.UsingCustomSystemPrompt {
		parts = append(parts, "Prompt système personnalisé")
	} else {
		parts = append(parts, "Template: "+s.Selected())
	}
	if n := len(info.ActiveRoles); n > 0 {
		names := make([]string, n)
		for i, r := range info.ActiveRoles {
			names[i] = strings.TrimSpace(r.Avatar + " " + r.Name)
		}
		parts = append(parts, fmt.Sprintf("%d rôle(s): %s", n, strings.Join(names, ", ")))
	}
	if info.CustomPromptCount > 0 {
		parts = append(parts, fmt.Sprintf("%d prompt(s) personnalisé(s)", info.CustomPromptCount))
	}
	if n := len(info.ActiveTools); n > 0 {
		parts = append(parts, fmt.Sprintf("%d outil(s) actif(s)", n))
	}
	return strings.Join(parts, " • ")
}
