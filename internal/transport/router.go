package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/promptdeck/internal/domain/event"
	porteventbus "github.com/alanyang/promptdeck/internal/port/eventbus"
	"github.com/alanyang/promptdeck/internal/service/composer"
	"github.com/alanyang/promptdeck/internal/service/persist"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
	themesvc "github.com/alanyang/promptdeck/internal/service/theme"

	prompthandler "github.com/alanyang/promptdeck/internal/transport/promptconfig"
	templatehandler "github.com/alanyang/promptdeck/internal/transport/template"
	themehandler "github.com/alanyang/promptdeck/internal/transport/theme"
	wshandler "github.com/alanyang/promptdeck/internal/transport/ws"
)

// Services groups what the HTTP surface serves.
type Services struct {
	Prompts    *promptsvc.Store
	PromptSave *persist.Persister
	Composer   *composer.Service
	Themes     *themesvc.Store
	Hub        *wshandler.Hub
	EventBus   porteventbus.EventBus
	MCP        http.Handler
}

func NewRouter(ctx context.Context, svc Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	prompthandler.Register(api.Group("/prompt-config"), svc.Prompts, svc.Composer, svc.PromptSave)
	templatehandler.Register(api.Group("/templates"), svc.Composer)
	themehandler.Register(api.Group("/themes"), svc.Themes)

	svc.Hub.Register(api.Group("/ws"))

	if svc.MCP != nil {
		r.Any("/mcp", gin.WrapH(svc.MCP))
	}

	// Bridge: one subscription per domain channel. event.Type in the payload
	// lets the client filter.
	if svc.EventBus != nil {
		for _, ch := range event.Channels() {
			c := ch
			if _, err := svc.EventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
				svc.Hub.Broadcast(e)
			}); err != nil {
				slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
			}
		}
	}

	return r
}
