package template

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	"github.com/alanyang/promptdeck/internal/service/composer"
)

func Register(rg *gin.RouterGroup, comp *composer.Service) {
	rg.GET("", listTemplates(comp))
	rg.PUT("/selected", selectTemplate(comp))
}

type listResp struct {
	Selected  string                   `json:"selected"`
	Templates []domaintemplate.Summary `json:"templates"`
}

func listTemplates(comp *composer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, listResp{Selected: comp.Selected(), Templates: comp.Templates()})
	}
}

type selectReq struct {
	ID string `json:"id" binding:"required"`
}

func selectTemplate(comp *composer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := comp.SelectTemplate(c.Request.Context(), req.ID); err != nil {
			if errors.Is(err, domaintemplate.ErrUnknownTemplate) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"selected": comp.Selected()})
	}
}
