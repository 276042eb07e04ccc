package storage

//go:generate mockgen -destination=../../mocks/storage.go -package=mocks github.com/alanyang/promptdeck/internal/port/storage Storage,SaveCoordinator

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: not found")

// Storage persists opaque snapshots under string keys.
// Implementations must be safe for concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SaveCoordinator lets a store force its pending state to disk.
type SaveCoordinator interface {
	Schedule()
	SaveNow(ctx context.Context) error
}
