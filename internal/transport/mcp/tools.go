package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/promptdeck/internal/domain/prompt"
	"github.com/alanyang/promptdeck/internal/service/composer"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
)

// RegisterTools registers all MCP tools on the server.
func RegisterTools(s *mcpserver.MCPServer, store *promptsvc.Store, comp *composer.Service) {
	s.AddTool(mcpmcp.NewTool("list_roles",
		mcpmcp.WithDescription("List the configured roles with their id, name, avatar and enabled flag."),
	), listRolesHandler(store))

	s.AddTool(mcpmcp.NewTool("toggle_role",
		mcpmcp.WithDescription("Enable or disable a role. The change is saved immediately and shows up in system_prompt."),
		mcpmcp.WithString("id", mcpmcp.Required(), mcpmcp.Description("Role id from list_roles")),
		mcpmcp.WithBoolean("enabled", mcpmcp.Required(), mcpmcp.Description("true to enable, false to disable")),
	), toggleRoleHandler(store))

	s.AddTool(mcpmcp.NewTool("list_templates",
		mcpmcp.WithDescription("List the legacy prompt templates and the currently selected one."),
	), listTemplatesHandler(comp))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

type roleItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar,omitempty"`
	Enabled bool   `json:"enabled"`
}

func listRolesHandler(store *promptsvc.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		roles := store.Snapshot().Roles
		items := make([]roleItem, 0, len(roles))
		for _, r := range roles {
			items = append(items, roleItem{ID: r.ID, Name: r.Name, Avatar: r.Avatar, Enabled: r.Enabled})
		}
		return jsonResult(items)
	}
}

func toggleRoleHandler(store *promptsvc.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := mcpmcp.ParseString(req, "id", "")
		if id == "" {
			return mcpmcp.NewToolResultText("error: id is required"), nil
		}
		enabled := mcpmcp.ParseBoolean(req, "enabled", false)

		role, err := store.UpdateRole(ctx, id, prompt.RolePatch{Enabled: &enabled})
		if errors.Is(err, promptsvc.ErrNotFound) {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: unknown role %q", id)), nil
		}
		if err != nil {
			return nil, fmt.Errorf("toggle role: %w", err)
		}

		state := "disabled"
		if role.Enabled {
			state = "enabled"
		}
		return mcpmcp.NewToolResultText(fmt.Sprintf("role %s %s", role.ID, state)), nil
	}
}

type templatesResult struct {
	Selected  string `json:"selected"`
	Templates any    `json:"templates"`
}

func listTemplatesHandler(comp *composer.Service) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		return jsonResult(templatesResult{Selected: comp.Selected(), Templates: comp.Templates()})
	}
}

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(b)), nil
}
