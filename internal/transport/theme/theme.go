package theme

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domaintheme "github.com/alanyang/promptdeck/internal/domain/theme"
	themesvc "github.com/alanyang/promptdeck/internal/service/theme"
)

func Register(rg *gin.RouterGroup, store *themesvc.Store) {
	rg.GET("", listThemes(store))
	rg.GET("/current", currentTheme(store))
	rg.PUT("/current", setTheme(store))
	rg.POST("/generate", generateTheme())
	rg.POST("/custom", createCustomTheme(store))
	rg.PATCH("/custom/:id", updateCustomTheme(store))
	rg.DELETE("/custom/:id", deleteCustomTheme(store))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaintheme.ErrInvalidColor), errors.Is(err, domaintheme.ErrMissingName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, themesvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type listResp struct {
	CurrentThemeID string              `json:"currentThemeId"`
	Themes         []domaintheme.Theme `json:"themes"`
}

func listThemes(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listResp{CurrentThemeID: store.Current().ID, Themes: store.All()})
	}
}

func currentTheme(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Current())
	}
}

type setThemeReq struct {
	ID string `json:"id" binding:"required"`
}

type setThemeResp struct {
	Applied bool              `json:"applied"`
	Theme   domaintheme.Theme `json:"theme"`
}

// setTheme answers 200 even for an unknown id: selection is a no-op then and
// "applied" is false.
func setTheme(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setThemeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		applied := store.SetTheme(req.ID)
		c.JSON(http.StatusOK, setThemeResp{Applied: applied, Theme: store.Current()})
	}
}

type generateReq struct {
	Primary    string `json:"primary" binding:"required"`
	Background string `json:"background" binding:"required"`
	Name       string `json:"name"`
	Save       bool   `json:"save"`
	Select     bool   `json:"select"`
}

func (r generateReq) validate() error {
	if err := domaintheme.ValidateHex("primary", r.Primary); err != nil {
		return err
	}
	return domaintheme.ValidateHex("background", r.Background)
}

func (r generateReq) draft() domaintheme.Draft {
	d := domaintheme.GenerateFromColors(r.Primary, r.Background)
	if r.Name != "" {
		d.Name = r.Name
	}
	return d
}

// generateTheme derives a draft without storing it.
func generateTheme() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.validate(); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req.draft())
	}
}

type createReq struct {
	domaintheme.Draft
	Primary    string `json:"primary"`
	Background string `json:"background"`
	Select     bool   `json:"select"`
}

// createCustomTheme accepts either a full draft or a primary/background pair
// to derive one from.
func createCustomTheme(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw createReq
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		d := raw.Draft
		if raw.Primary != "" || raw.Background != "" {
			gen := generateReq{Primary: raw.Primary, Background: raw.Background, Name: raw.Name}
			if err := gen.validate(); err != nil {
				writeError(c, err)
				return
			}
			d = gen.draft()
		}
		if err := d.Validate(); err != nil {
			writeError(c, err)
			return
		}

		created := store.CreateCustomTheme(d)
		if raw.Select {
			store.SetTheme(created.ID)
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateCustomTheme(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domaintheme.Patch
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			writeError(c, err)
			return
		}
		t, err := store.UpdateCustomTheme(c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func deleteCustomTheme(store *themesvc.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteCustomTheme(c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"currentThemeId": store.Current().ID})
	}
}
