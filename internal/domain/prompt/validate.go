package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a required field left empty by the caller.
// Stores never validate; callers check drafts before handing them over.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	return nil
}

func (d CustomPromptDraft) Validate() error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	if err := required("content", d.Content); err != nil {
		return err
	}
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", d.Category)}
	}
	return nil
}

func (d RoleDraft) Validate() error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	return required("prompt", d.Prompt)
}

func (d ToolDraft) Validate() error {
	if err := required("name", d.Name); err != nil {
		return err
	}
	return required("description", d.Description)
}

// Validate rejects a patch that would blank a required field.
func (p CustomPromptPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := required("content", *p.Content); err != nil {
			return err
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", *p.Category)}
	}
	return nil
}

func (p RolePatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Prompt != nil {
		return required("prompt", *p.Prompt)
	}
	return nil
}

func (p ToolPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Description != nil {
		return required("description", *p.Description)
	}
	return nil
}
