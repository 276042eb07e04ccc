package mcp

import (
	"context"
	"log/slog"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	"github.com/alanyang/promptdeck/internal/service/composer"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
)

// PromptSystem is the name of the MCP prompt carrying the composed system message.
const PromptSystem = "system_prompt"

// RegisterPrompts registers the system_prompt MCP prompt.
func RegisterPrompts(s *mcpserver.MCPServer, store *promptsvc.Store, comp *composer.Service) {
	s.AddPrompt(
		mcpmcp.NewPrompt(PromptSystem,
			mcpmcp.WithPromptDescription("Composed system prompt: the selected legacy template followed by the active customizations."),
			mcpmcp.WithArgument("cwd",
				mcpmcp.ArgumentDescription("Working directory substituted into the template. Defaults to /home/project."),
			),
		),
		systemPromptHandler(store, comp),
	)
}

func systemPromptHandler(store *promptsvc.Store, comp *composer.Service) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		rc := domaintemplate.DefaultRenderContext()
		if cwd := req.Params.Arguments["cwd"]; cwd != "" {
			rc.WorkingDirectory = cwd
		}

		// A lookup failure still yields a usable prompt built from the configured content.
		text, err := comp.ComposeEnhanced(store.Snapshot(), rc)
		if err != nil {
			slog.WarnContext(ctx, "mcp: composing system prompt", "error", err)
		}

		return mcpmcp.NewGetPromptResult(
			"System prompt composed from the current configuration",
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(
					mcpmcp.RoleUser,
					mcpmcp.TextContent{
						Type: "text",
						Text: text,
					},
				),
			},
		), nil
	}
}
