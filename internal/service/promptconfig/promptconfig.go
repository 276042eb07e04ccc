package promptconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alanyang/promptdeck/internal/domain/prompt"
	"github.com/alanyang/promptdeck/internal/port/storage"
	"github.com/alanyang/promptdeck/internal/service/notify"
	"github.com/alanyang/promptdeck/internal/service/persist"
)

// StorageKey is where the prompt configuration is persisted.
const StorageKey = "bolt-prompt-config"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Listener is called after every mutation with the new version.
type Listener func(version uint64)

// Store owns the prompt configuration. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	cfg     prompt.Config
	version uint64

	saver     storage.SaveCoordinator
	listeners notify.List[uint64]
}

// NewStore returns a store holding the built-in defaults.
func NewStore() *Store {
	return &Store{cfg: prompt.Defaults()}
}

// Attach wires persistence: every mutation schedules a debounced save, and
// toggles of an enabled flag save immediately.
func (s *Store) Attach(saver storage.SaveCoordinator) {
	s.mu.Lock()
	s.saver = saver
	s.mu.Unlock()
	s.Subscribe(func(uint64) { saver.Schedule() })
}

// Load replaces the state with the stored snapshot merged over the defaults.
// A missing snapshot yields the defaults. A broken one is logged, the
// defaults are used and the *persist.ReadError is returned; the stored blob
// is left alone until the next write.
func (s *Store) Load(ctx context.Context, st storage.Storage) error {
	cfg := prompt.Defaults()
	data, err := persist.Load(ctx, st, StorageKey)
	if err == nil && data != nil {
		var decoded prompt.Config
		decoded, err = prompt.Decode(data)
		if err != nil {
			err = &persist.ReadError{Key: StorageKey, Err: err}
		} else {
			cfg = decoded
		}
	}
	if err != nil {
		slog.Warn("loading prompt config, using defaults", "error", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return err
}

// Reload adopts a snapshot written by another process. Unlike Load it keeps
// the current state when the snapshot is missing or broken. The version is
// bumped but listeners do not run, so the reloaded state is not saved back.
func (s *Store) Reload(ctx context.Context, st storage.Storage) (uint64, error) {
	data, err := persist.Load(ctx, st, StorageKey)
	if err != nil {
		return s.Version(), err
	}
	if data == nil {
		return s.Version(), nil
	}
	cfg, err := prompt.Decode(data)
	if err != nil {
		return s.Version(), &persist.ReadError{Key: StorageKey, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.version++
	return s.version, nil
}

// Snapshot returns a deep copy of the current configuration.
func (s *Store) Snapshot() prompt.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Encode serializes the current configuration for storage.
func (s *Store) Encode() ([]byte, error) {
	return prompt.Encode(s.Snapshot())
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run outside the store lock, in subscription order.
func (s *Store) Subscribe(fn Listener) func() {
	return s.listeners.Add(fn)
}

// mutate applies fn to the current state under the store lock. When fn
// reports false nothing changes and no listener runs.
func (s *Store) mutate(ctx context.Context, saveNow bool, fn func(prompt.Config) (prompt.Config, bool)) bool {
	s.mu.Lock()
	next, ok := fn(s.cfg)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.cfg = next
	s.version++
	version := s.version
	saver := s.saver
	s.mu.Unlock()

	s.listeners.Notify(version)

	if saveNow && saver != nil {
		if err := saver.SaveNow(ctx); err != nil {
			slog.Error("saving prompt config after toggle", "error", err)
		}
	}
	return true
}

func (s *Store) UpdateSystemPrompt(ctx context.Context, p prompt.SystemPromptPatch) prompt.SystemPrompt {
	var out prompt.SystemPrompt
	s.mutate(ctx, p.TogglesEnabled(), func(c prompt.Config) (prompt.Config, bool) {
		c = prompt.UpdateSystemPrompt(c, p)
		out = c.SystemPrompt
		return c, true
	})
	return out
}

func (s *Store) AddCustomPrompt(ctx context.Context, d prompt.CustomPromptDraft) prompt.CustomPrompt {
	var out prompt.CustomPrompt
	s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		c, out = prompt.AddCustomPrompt(c, d, prompt.NewID())
		return c, true
	})
	return out
}

// UpdateCustomPrompt returns ErrNotFound, and changes nothing, for an unknown id.
func (s *Store) UpdateCustomPrompt(ctx context.Context, id string, p prompt.CustomPromptPatch) (prompt.CustomPrompt, error) {
	var out prompt.CustomPrompt
	ok := s.mutate(ctx, p.TogglesEnabled(), func(c prompt.Config) (prompt.Config, bool) {
		c, found := prompt.UpdateCustomPrompt(c, id, p)
		if found {
			out = findCustomPrompt(c, id)
		}
		return c, found
	})
	if !ok {
		return prompt.CustomPrompt{}, fmt.Errorf("custom prompt %s: %w", id, ErrNotFound)
	}
	return out, nil
}

func (s *Store) DeleteCustomPrompt(ctx context.Context, id string) error {
	if !s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		return prompt.DeleteCustomPrompt(c, id)
	}) {
		return fmt.Errorf("custom prompt %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) AddTool(ctx context.Context, d prompt.ToolDraft) prompt.Tool {
	var out prompt.Tool
	s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		c, out = prompt.AddTool(c, d, prompt.NewID())
		out = findTool(c, out.ID)
		return c, true
	})
	return out
}

func (s *Store) UpdateTool(ctx context.Context, id string, p prompt.ToolPatch) (prompt.Tool, error) {
	var out prompt.Tool
	ok := s.mutate(ctx, p.TogglesEnabled(), func(c prompt.Config) (prompt.Config, bool) {
		c, found := prompt.UpdateTool(c, id, p)
		if found {
			out = findTool(c, id)
		}
		return c, found
	})
	if !ok {
		return prompt.Tool{}, fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}
	return out, nil
}

func (s *Store) DeleteTool(ctx context.Context, id string) error {
	if !s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		return prompt.DeleteTool(c, id)
	}) {
		return fmt.Errorf("tool %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) AddRole(ctx context.Context, d prompt.RoleDraft) prompt.Role {
	var out prompt.Role
	s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		c, out = prompt.AddRole(c, d, prompt.NewID())
		return c, true
	})
	return out
}

func (s *Store) UpdateRole(ctx context.Context, id string, p prompt.RolePatch) (prompt.Role, error) {
	var out prompt.Role
	ok := s.mutate(ctx, p.TogglesEnabled(), func(c prompt.Config) (prompt.Config, bool) {
		c, found := prompt.UpdateRole(c, id, p)
		if found {
			out = findRole(c, id)
		}
		return c, found
	})
	if !ok {
		return prompt.Role{}, fmt.Errorf("role %s: %w", id, ErrNotFound)
	}
	return out, nil
}

func (s *Store) DeleteRole(ctx context.Context, id string) error {
	if !s.mutate(ctx, false, func(c prompt.Config) (prompt.Config, bool) {
		return prompt.DeleteRole(c, id)
	}) {
		return fmt.Errorf("role %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddRolePreset adds an enabled copy of a predefined role.
func (s *Store) AddRolePreset(ctx context.Context, key string) (prompt.Role, error) {
	preset, ok := prompt.FindRolePreset(key)
	if !ok {
		return prompt.Role{}, fmt.Errorf("role preset %s: %w", key, ErrUnknownPreset)
	}
	return s.AddRole(ctx, preset.Draft()), nil
}

// AddToolPreset adds an enabled copy of a predefined tool.
func (s *Store) AddToolPreset(ctx context.Context, key string) (prompt.Tool, error) {
	preset, ok := prompt.FindToolPreset(key)
	if !ok {
		return prompt.Tool{}, fmt.Errorf("tool preset %s: %w", key, ErrUnknownPreset)
	}
	return s.AddTool(ctx, preset.Draft()), nil
}

// ResetToDefaults restores the built-in configuration.
func (s *Store) ResetToDefaults(ctx context.Context) {
	s.mutate(ctx, false, func(prompt.Config) (prompt.Config, bool) {
		return prompt.Defaults(), true
	})
}

// Compose assembles the system message from the current state.
func (s *Store) Compose() string {
	return prompt.Compose(s.Snapshot())
}

func findCustomPrompt(c prompt.Config, id string) prompt.CustomPrompt {
	for _, cp := range c.CustomPrompts {
		if cp.ID == id {
			return cp
		}
	}
	return prompt.CustomPrompt{}
}

// findTool returns a copy of the tool whose parameters do not alias c.
func findTool(c prompt.Config, id string) prompt.Tool {
	for _, t := range c.Clone().Tools {
		if t.ID == id {
			return t
		}
	}
	return prompt.Tool{}
}

func findRole(c prompt.Config, id string) prompt.Role {
	for _, r := range c.Roles {
		if r.ID == id {
			return r
		}
	}
	return prompt.Role{}
}
