package memory

import (
	"context"
	"sync"

	"github.com/alanyang/promptdeck/internal/port/storage"
)

// Storage is an in-memory storage.Storage. Values are copied on the way in
// and out so callers can never alias stored bytes.
type Storage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{
		entries: make(map[string][]byte),
	}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *Storage) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.entries[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
