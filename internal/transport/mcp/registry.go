package mcp

import (
	"context"
	"fmt"
	"sort"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// MethodPromptsListChanged tells clients to refetch system_prompt.
const MethodPromptsListChanged = "notifications/prompts/list_changed"

// SessionRegistry is the in-memory set of active MCP sessions.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]struct{}

	// mcpSrv is set after the MCP server is constructed.
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]struct{})}
}

// SetMCPServer injects the mcp-go server after construction.
func (r *SessionRegistry) SetMCPServer(s *mcpserver.MCPServer) {
	r.mcpMu.Lock()
	r.mcpSrv = s
	r.mcpMu.Unlock()
}

func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	r.sessions[sessionID] = struct{}{}
	r.mu.Unlock()
}

// Unregister removes a session and reports whether it was tracked.
func (r *SessionRegistry) Unregister(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

// Sessions returns the tracked session ids in sorted order.
func (r *SessionRegistry) Sessions() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// NotifyPromptChanged tells every connected session that the composed prompt
// changed. With no sessions it is a no-op.
func (r *SessionRegistry) NotifyPromptChanged(_ context.Context, version uint64) error {
	targets := r.Sessions()
	if len(targets) == 0 {
		return nil
	}

	r.mcpMu.RLock()
	srv := r.mcpSrv
	r.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params := map[string]any{"version": version}
	var lastErr error
	for _, sessionID := range targets {
		if err := srv.SendNotificationToSpecificClient(sessionID, MethodPromptsListChanged, params); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
