package event

import (
	"time"
)

type Type string

const (
	TypePromptConfigChanged Type = "prompt_config_changed"
	TypeThemeChanged        Type = "theme_changed"
	TypeTemplateSelected    Type = "template_selected"

	// TypeSnapshotSaved reports that a process wrote a snapshot to shared
	// storage. EntityID is the storage key.
	TypeSnapshotSaved Type = "snapshot_saved"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelPrompt Channel = "prompt"
	ChannelTheme  Channel = "theme"

	// ChannelStorage carries snapshot_saved events between processes.
	ChannelStorage Channel = "storage"
)

var typeToChannel = map[Type]Channel{
	TypePromptConfigChanged: ChannelPrompt,
	TypeTemplateSelected:    ChannelPrompt,
	TypeThemeChanged:        ChannelTheme,
	TypeSnapshotSaved:       ChannelStorage,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Channels lists the channels bridged to presentation clients.
func Channels() []Channel { return []Channel{ChannelPrompt, ChannelTheme} }

// Event carries the new store version and the affected id, not full state.
// Subscribers read fresh state from the owning store.
type Event struct {
	Type      Type      `json:"type"`
	Version   uint64    `json:"version"`
	EntityID  string    `json:"entity_id,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, version uint64, entityID string) Event {
	return Event{
		Type:      eventType,
		Version:   version,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// From returns a copy of e stamped with the publishing process id.
func (e Event) From(origin string) Event {
	e.Origin = origin
	return e
}
