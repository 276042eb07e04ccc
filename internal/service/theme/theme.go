package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	domaintheme "github.com/alanyang/promptdeck/internal/domain/theme"
	"github.com/alanyang/promptdeck/internal/port/presenter"
	"github.com/alanyang/promptdeck/internal/port/storage"
	"github.com/alanyang/promptdeck/internal/service/notify"
	"github.com/alanyang/promptdeck/internal/service/persist"
)

// StorageKey is where the current theme id and the custom themes are persisted.
const StorageKey = "bolt-theme-config"

var ErrNotFound = errors.New("custom theme not found")

// Change describes a committed mutation.
type Change struct {
	Version        uint64
	CurrentID      string
	CurrentChanged bool
}

// Store owns the theme selection and the user's custom themes.
type Store struct {
	mu       sync.Mutex
	builtins []domaintheme.Theme
	custom   []domaintheme.Theme
	current  domaintheme.Theme
	version  uint64

	listeners notify.List[Change]
}

// NewStore returns a store with no custom theme and the first built-in selected.
func NewStore() *Store {
	builtins := domaintheme.Builtins()
	return &Store{
		builtins: builtins,
		current:  builtins[0].Clone(),
	}
}

// Attach schedules a debounced save after every mutation.
func (s *Store) Attach(saver storage.SaveCoordinator) {
	s.Subscribe(func(Change) { saver.Schedule() })
}

// Load restores custom themes and the current selection. An unresolvable
// current id selects the first built-in. A broken snapshot is logged and
// returned as *persist.ReadError; the store keeps its defaults.
func (s *Store) Load(ctx context.Context, st storage.Storage) error {
	data, err := persist.Load(ctx, st, StorageKey)
	if err != nil {
		slog.Warn("loading theme config, using defaults", "error", err)
		return err
	}
	if data == nil {
		return nil
	}
	p, err := domaintheme.Decode(data)
	if err != nil {
		err = &persist.ReadError{Key: StorageKey, Err: err}
		slog.Warn("loading theme config, using defaults", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = make([]domaintheme.Theme, 0, len(p.CustomThemes))
	for _, t := range p.CustomThemes {
		s.custom = append(s.custom, t.Clone())
	}
	s.current = s.builtins[0].Clone()
	if t, ok := s.findLocked(p.CurrentThemeID); ok {
		s.current = t
	}
	return nil
}

// Reload adopts a snapshot written by another process. A missing or broken
// snapshot keeps the current state. Listeners do not run; the returned
// Change tells the caller whether the current theme must be applied again.
func (s *Store) Reload(ctx context.Context, st storage.Storage) (Change, error) {
	data, err := persist.Load(ctx, st, StorageKey)
	if err != nil || data == nil {
		return s.unchanged(), err
	}
	p, err := domaintheme.Decode(data)
	if err != nil {
		return s.unchanged(), &persist.ReadError{Key: StorageKey, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.custom = cloneAll(p.CustomThemes)
	s.current = s.builtins[0].Clone()
	if t, ok := s.findLocked(p.CurrentThemeID); ok {
		s.current = t
	}
	changed := prev.ID != s.current.ID || !maps.Equal(prev.Variables(), s.current.Variables())
	return s.bumpLocked(changed), nil
}

func (s *Store) unchanged() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Change{Version: s.version, CurrentID: s.current.ID}
}

// Encode serializes the persisted part of the state.
func (s *Store) Encode() ([]byte, error) {
	s.mu.Lock()
	p := domaintheme.Persisted{
		CurrentThemeID: s.current.ID,
		CustomThemes:   cloneAll(s.custom),
	}
	s.mu.Unlock()
	return domaintheme.Encode(p)
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	return s.listeners.Add(fn)
}

func (s *Store) Current() domaintheme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *Store) Custom() []domaintheme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.custom)
}

// All returns the built-in themes followed by the custom ones.
func (s *Store) All() []domaintheme.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(cloneAll(s.builtins), cloneAll(s.custom)...)
}

func (s *Store) Find(id string) (domaintheme.Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) (domaintheme.Theme, bool) {
	for _, t := range s.builtins {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	for _, t := range s.custom {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return domaintheme.Theme{}, false
}

// SetTheme selects the theme with the given id. An unknown id leaves the
// state untouched and reports false.
func (s *Store) SetTheme(id string) bool {
	s.mu.Lock()
	t, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.current = t
	change := s.bumpLocked(true)
	s.mu.Unlock()

	s.listeners.Notify(change)
	return true
}

// CreateCustomTheme stores a new custom theme. It does not select it.
func (s *Store) CreateCustomTheme(d domaintheme.Draft) domaintheme.Theme {
	t := domaintheme.FromDraft(domaintheme.NewCustomID(), d)

	s.mu.Lock()
	s.custom = append(s.custom, t.Clone())
	change := s.bumpLocked(false)
	s.mu.Unlock()

	s.listeners.Notify(change)
	return t
}

// UpdateCustomTheme patches a custom theme. When it is the current theme the
// current copy is updated too. Built-in themes cannot be updated.
func (s *Store) UpdateCustomTheme(id string, p domaintheme.Patch) (domaintheme.Theme, error) {
	s.mu.Lock()
	idx := s.customIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domaintheme.Theme{}, fmt.Errorf("theme %s: %w", id, ErrNotFound)
	}
	updated := p.Apply(s.custom[idx])
	s.custom[idx] = updated
	isCurrent := s.current.ID == id
	if isCurrent {
		s.current = updated.Clone()
	}
	change := s.bumpLocked(isCurrent)
	s.mu.Unlock()

	s.listeners.Notify(change)
	return updated.Clone(), nil
}

// DeleteCustomTheme removes a custom theme. Deleting the current theme
// selects the first built-in.
func (s *Store) DeleteCustomTheme(id string) error {
	s.mu.Lock()
	idx := s.customIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("theme %s: %w", id, ErrNotFound)
	}
	s.custom = append(s.custom[:idx:idx], s.custom[idx+1:]...)
	wasCurrent := s.current.ID == id
	if wasCurrent {
		s.current = s.builtins[0].Clone()
	}
	change := s.bumpLocked(wasCurrent)
	s.mu.Unlock()

	s.listeners.Notify(change)
	return nil
}

// Apply pushes the current theme's variables to p. A presenter without a
// live document is a successful no-op.
func (s *Store) Apply(ctx context.Context, p presenter.Presenter) error {
	vars := s.Current().Variables()
	if err := p.Apply(ctx, vars); err != nil {
		if errors.Is(err, presenter.ErrNoDocument) {
			return nil
		}
		return fmt.Errorf("applying theme: %w", err)
	}
	return nil
}

func (s *Store) customIndexLocked(id string) int {
	for i, t := range s.custom {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) bumpLocked(currentChanged bool) Change {
	s.version++
	return Change{Version: s.version, CurrentID: s.current.ID, CurrentChanged: currentChanged}
}

func cloneAll(themes []domaintheme.Theme) []domaintheme.Theme {
	out := make([]domaintheme.Theme, len(themes))
	for i, t := range themes {
		out[i] = t.Clone()
	}
	return out
}
