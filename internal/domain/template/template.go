package template

import (
	"errors"
	"fmt"
)

// DefaultID is the template used until another one is selected.
const DefaultID = "default"

// Template is one entry of the legacy system-prompt catalog.
type Template struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
	Body        string `json:"-" yaml:"body"`
}

// Summary is the public listing of a template, without its body.
type Summary struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func (t Template) Summary() Summary {
	return Summary{ID: t.ID, Label: t.Label, Description: t.Description}
}

// RenderContext is the data a template body is rendered with.
type RenderContext struct {
	WorkingDirectory  string
	AllowedMarkupTags []string
	DiffTagName       string
}

// DefaultRenderContext mirrors the environment the legacy prompts were written for.
func DefaultRenderContext() RenderContext {
	return RenderContext{
		WorkingDirectory: "/home/project",
		AllowedMarkupTags: []string{
			"a", "b", "blockquote", "br", "code", "dd", "del", "details", "div", "dl", "dt",
			"em", "h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "ins", "kbd", "li", "ol",
			"p", "pre", "q", "rp", "rt", "ruby", "s", "samp", "source", "span", "strike",
			"strong", "sub", "summary", "sup", "table", "tbody", "td", "tfoot", "th",
			"thead", "tr", "ul", "var",
		},
		DiffTagName: "bolt_file_modifications",
	}
}

var ErrUnknownTemplate = errors.New("unknown template")

// LookupError reports a template that could not be resolved or rendered.
type LookupError struct {
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("template %q: %v", e.ID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
