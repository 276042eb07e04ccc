package presenter

//go:generate mockgen -destination=../../mocks/presenter.go -package=mocks github.com/alanyang/promptdeck/internal/port/presenter Presenter

import (
	"context"
	"errors"
)

// ErrNoDocument means no presentation surface is attached. Callers treat it
// as a successful no-op.
var ErrNoDocument = errors.New("presenter: no document")

// Presenter pushes CSS variables to the presentation layer. Apply sets every
// variable or none.
type Presenter interface {
	Apply(ctx context.Context, vars map[string]string) error
}
