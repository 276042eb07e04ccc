package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Category places a custom prompt fragment relative to the base block.
type Category string

const (
	CategoryPrefix  Category = "prefix"
	CategoryContext Category = "context"
	CategorySuffix  Category = "suffix"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPrefix, CategoryContext, CategorySuffix:
		return true
	}
	return false
}

// SystemPrompt is the base block of the composed prompt.
// IsDefault means the user has not overridden it and the legacy template
// registry should be preferred over Content.
type SystemPrompt struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Enabled   bool   `json:"enabled"`
	IsDefault bool   `json:"isDefault"`
}

type CustomPrompt struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Content  string   `json:"content"`
	Enabled  bool     `json:"enabled"`
	Order    int      `json:"order"`
	Category Category `json:"category"`
}

// Tool is descriptive metadata injected into the prompt. Nothing executes it.
type Tool struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Command     string                `json:"command"`
	Parameters  map[string]ParamValue `json:"parameters"`
	Enabled     bool                  `json:"enabled"`
}

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
	Enabled     bool   `json:"enabled"`
	Avatar      string `json:"avatar,omitempty"`
}

// Config is the unit of persistence.
type Config struct {
	SystemPrompt  SystemPrompt   `json:"systemPrompt"`
	CustomPrompts []CustomPrompt `json:"customPrompts"`
	Tools         []Tool         `json:"tools"`
	Roles         []Role         `json:"roles"`
}

// Clone returns a deep copy so snapshots handed to callers never alias store state.
func (c Config) Clone() Config {
	out := Config{
		SystemPrompt:  c.SystemPrompt,
		CustomPrompts: append([]CustomPrompt{}, c.CustomPrompts...),
		Tools:         make([]Tool, len(c.Tools)),
		Roles:         append([]Role{}, c.Roles...),
	}
	for i, t := range c.Tools {
		out.Tools[i] = t
		if t.Parameters != nil {
			params := make(map[string]ParamValue, len(t.Parameters))
			for k, v := range t.Parameters {
				params[k] = v
			}
			out.Tools[i].Parameters = params
		}
	}
	return out
}

// NewID returns a time-ordered unique identifier. Successive calls within the
// same millisecond never collide.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// storedConfig mirrors Config with every collection optional so absent fields
// can be told apart from empty ones.
type storedConfig struct {
	SystemPrompt  json.RawMessage `json:"systemPrompt"`
	CustomPrompts *[]CustomPrompt `json:"customPrompts"`
	Tools         *[]storedTool   `json:"tools"`
	Roles         *[]Role         `json:"roles"`
}

// storedTool reads parameters as raw JSON. Older blobs may hold nested
// values; those are converted by storedParams instead of failing the load.
type storedTool struct {
	Tool
	Parameters map[string]json.RawMessage `json:"parameters"`
}

// Decode parses a persisted blob and merges it field by field over the
// built-in defaults: a missing systemPrompt field keeps the default value,
// a missing collection is replaced by the default collection.
func Decode(data []byte) (Config, error) {
	var stored storedConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return Config{}, fmt.Errorf("decoding prompt config: %w", err)
	}

	cfg := Defaults()
	if len(stored.SystemPrompt) > 0 && string(stored.SystemPrompt) != "null" {
		if err := json.Unmarshal(stored.SystemPrompt, &cfg.SystemPrompt); err != nil {
			return Config{}, fmt.Errorf("decoding system prompt: %w", err)
		}
	}
	if stored.CustomPrompts != nil {
		cfg.CustomPrompts = *stored.CustomPrompts
	}
	if stored.Tools != nil {
		cfg.Tools = make([]Tool, len(*stored.Tools))
		for i, st := range *stored.Tools {
			t := st.Tool
			t.Parameters = storedParams(t.ID, st.Parameters)
			cfg.Tools[i] = t
		}
	}
	if stored.Roles != nil {
		cfg.Roles = *stored.Roles
	}
	return cfg, nil
}

// Encode serializes cfg for storage.
func Encode(cfg Config) ([]byte, error) {
	if cfg.CustomPrompts == nil {
		cfg.CustomPrompts = []CustomPrompt{}
	}
	if cfg.Tools == nil {
		cfg.Tools = []Tool{}
	}
	if cfg.Roles == nil {
		cfg.Roles = []Role{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding prompt config: %w", err)
	}
	return data, nil
}
