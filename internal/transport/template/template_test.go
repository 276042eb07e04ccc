package template_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/promptdeck/internal/adapter/memory"
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
	"github.com/alanyang/promptdeck/internal/mocks"
	"github.com/alanyang/promptdeck/internal/service/composer"
	transporttemplate "github.com/alanyang/promptdeck/internal/transport/template"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *composer.Service, *memory.Storage) {
	t.Helper()
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistry(ctrl)
	reg.EXPECT().List().Return([]domaintemplate.Summary{
		{ID: "default", Label: "Défaut"},
		{ID: "optimized", Label: "Optimisé"},
	}).AnyTimes()

	st := memory.NewStorage()
	comp := composer.NewService(reg, st)
	r := gin.New()
	transporttemplate.Register(r.Group("/templates"), comp)
	return r, comp, st
}

func TestListTemplates(t *testing.T) {
	r, _, _ := newRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/templates", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Selected  string                   `json:"selected"`
		Templates []domaintemplate.Summary `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "default", got.Selected)
	assert.Len(t, got.Templates, 2)
}

func TestSelectTemplate(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]interface{}
		wantCode     int
		wantSelected string
	}{
		{"known id returns 200", map[string]interface{}{"id": "optimized"}, http.StatusOK, "optimized"},
		{"unknown id returns 404", map[string]interface{}{"id": "ghost"}, http.StatusNotFound, "default"},
		{"missing id returns 400", map[string]interface{}{}, http.StatusBadRequest, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, comp, st := newRouter(t)

			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req, _ := http.NewRequestWithContext(context.Background(), http.MethodPut, "/templates/selected", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantSelected, comp.Selected())

			if tt.wantCode == http.StatusOK {
				stored, err := st.Get(context.Background(), composer.StorageKey)
				require.NoError(t, err)
				assert.Equal(t, tt.wantSelected, string(stored))
			}
		})
	}
}
