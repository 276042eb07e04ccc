package template_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyang/promptdeck/internal/domain/template"
)

func TestLookupError(t *testing.T) {
	var err error = &template.LookupError{ID: "nope", Err: template.ErrUnknownTemplate}

	assert.True(t, errors.Is(err, template.ErrUnknownTemplate))
	assert.Equal(t, `template "nope": unknown template`, err.Error())

	var le *template.LookupError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, "nope", le.ID)
}

func TestSummary_OmitsBody(t *testing.T) {
	s := template.Template{ID: "a", Label: "A", Description: "d", Body: "secret"}.Summary()
	assert.Equal(t, template.Summary{ID: "a", Label: "A", Description: "d"}, s)
}
