package mcp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	mcptransport "github.com/alanyang/promptdeck/internal/transport/mcp"
)

func TestRegistry_RegisterUnregister(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	reg.Register("session-b")
	reg.Register("session-a")
	assert.Equal(t, []string{"session-a", "session-b"}, reg.Sessions())

	assert.True(t, reg.Unregister("session-a"))
	assert.False(t, reg.Unregister("session-a"), "second unregister is a no-op")
	assert.Equal(t, []string{"session-b"}, reg.Sessions())
}

func TestNotifyPromptChanged_NoSessions_NoOp(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()

	err := reg.NotifyPromptChanged(context.Background(), 3)
	assert.NoError(t, err, "NotifyPromptChanged with no sessions must be a no-op")
}

func TestNotifyPromptChanged_ServerNotInitialized(t *testing.T) {
	reg := mcptransport.NewSessionRegistry()
	reg.Register("session-1")

	assert.Error(t, reg.NotifyPromptChanged(context.Background(), 1))
}
