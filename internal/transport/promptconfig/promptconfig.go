package promptconfig

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/promptdeck/internal/domain/prompt"
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	"github.com/alanyang/promptdeck/internal/service/composer"
	"github.com/alanyang/promptdeck/internal/service/persist"
	promptsvc "github.com/alanyang/promptdeck/internal/service/promptconfig"
)

// Register mounts the prompt configuration endpoints on the given router group.
func Register(rg *gin.RouterGroup, store *promptsvc.Store, comp *composer.Service, saver *persist.Persister) {
	rg.GET("", getConfig(store))
	rg.POST("/reset", reset(store))
	rg.POST("/save", saveNow(saver))
	rg.GET("/status", status(saver))

	rg.PATCH("/system-prompt", updateSystemPrompt(store))

	rg.POST("/custom-prompts", addCustomPrompt(store))
	rg.PATCH("/custom-prompts/:id", updateCustomPrompt(store))
	rg.DELETE("/custom-prompts/:id", deleteCustomPrompt(store))

	rg.POST("/tools", addTool(store))
	rg.GET("/tools/presets", listToolPresets())
	rg.POST("/tools/presets/:key", addToolPreset(store))
	rg.PATCH("/tools/:id", updateTool(store))
	rg.DELETE("/tools/:id", deleteTool(store))

	rg.POST("/roles", addRole(store))
	rg.GET("/roles/presets", listRolePresets())
	rg.POST("/roles/presets/:key", addRolePreset(store))
	rg.PATCH("/roles/:id", updateRole(store))
	rg.DELETE("/roles/:id", deleteRole(store))

	rg.GET("/compose", compose(store, comp))
	rg.GET("/summary", summary(store, comp))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, prompt.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, promptsvc.ErrNotFound), errors.Is(err, promptsvc.ErrUnknownPreset):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type configResp struct {
	prompt.Config
	Version uint64 `json:"version"`
}

func getConfig(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, configResp{Config: store.Snapshot(), Version: store.Version()})
	}
}

func reset(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.ResetToDefaults(c.Request.Context())
		c.JSON(http.StatusOK, configResp{Config: store.Snapshot(), Version: store.Version()})
	}
}

type statusResp struct {
	Saving    bool       `json:"saving"`
	Pending   bool       `json:"pending"`
	LastSaved *time.Time `json:"lastSaved,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

func toStatusResp(s persist.Status) statusResp {
	out := statusResp{Saving: s.Saving, Pending: s.Pending}
	if !s.LastSaved.IsZero() {
		t := s.LastSaved
		out.LastSaved = &t
	}
	if s.LastError != nil {
		out.LastError = s.LastError.Error()
	}
	return out
}

func saveNow(saver *persist.Persister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := saver.SaveNow(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toStatusResp(saver.Status()))
	}
}

func status(saver *persist.Persister) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, toStatusResp(saver.Status()))
	}
}

func updateSystemPrompt(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.SystemPromptPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, store.UpdateSystemPrompt(c.Request.Context(), req))
	}
}

func addCustomPrompt(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.CustomPromptDraft
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, store.AddCustomPrompt(c.Request.Context(), req))
	}
}

func updateCustomPrompt(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.CustomPromptPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		cp, err := store.UpdateCustomPrompt(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

func deleteCustomPrompt(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteCustomPrompt(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func addTool(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.ToolDraft
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, store.AddTool(c.Request.Context(), req))
	}
}

func updateTool(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.ToolPatch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		t, err := store.UpdateTool(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func deleteTool(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteTool(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listToolPresets() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, prompt.ToolPresets)
	}
}

func addToolPreset(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := store.AddToolPreset(c.Request.Context(), c.Param("key"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func addRole(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.RoleDraft
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, store.AddRole(c.Request.Context(), req))
	}
}

func updateRole(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prompt.RolePatch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		r, err := store.UpdateRole(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func deleteRole(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listRolePresets() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, prompt.RolePresets)
	}
}

func addRolePreset(store *promptsvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := store.AddRolePreset(c.Request.Context(), c.Param("key"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

type composeResp struct {
	Prompt   string `json:"prompt"`
	Enhanced bool   `json:"enhanced"`
	Template string `json:"template,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

func compose(store *promptsvc.Store, comp *composer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := store.Snapshot()
		if c.Query("enhanced") != "true" {
			c.JSON(http.StatusOK, composeResp{Prompt: comp.Compose(cfg)})
			return
		}

		rc := domaintemplate.DefaultRenderContext()
		if cwd := c.Query("cwd"); cwd != "" {
			rc.WorkingDirectory = cwd
		}
		text, err := comp.ComposeEnhanced(cfg, rc)
		resp := composeResp{Prompt: text, Enhanced: true, Template: comp.Selected()}
		if err != nil {
			resp.Warning = err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}

type summaryResp struct {
	Summary         string      `json:"summary"`
	Info            prompt.Info `json:"info"`
	HasEnhancements bool        `json:"hasEnhancements"`
}

func summary(store *promptsvc.Store, comp *composer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := store.Snapshot()
		info := comp.Info(cfg)
		c.JSON(http.StatusOK, summaryResp{
			Summary:         comp.Summary(cfg),
			Info:            info,
			HasEnhancements: info.HasEnhancements(),
		})
	}
}
