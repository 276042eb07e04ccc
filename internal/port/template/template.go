package template

//go:generate mockgen -destination=../../mocks/template.go -package=mocks github.com/alanyang/promptdeck/internal/port/template Registry

import (
	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
)

// Registry is the catalog of legacy system-prompt templates.
type Registry interface {
	List() []domaintemplate.Summary
	// Resolve renders the template with the given id. Failures are
	// *domaintemplate.LookupError.
	Resolve(id string, rc domaintemplate.RenderContext) (string, error)
}
