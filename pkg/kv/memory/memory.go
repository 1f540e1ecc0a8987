// Package memory implements an in-memory document storage.
package memory

import (
	"context"
	"sync"

	"stockcount/pkg/kv"
)

// Storage provides an in-memory implementation of kv.Storage.
type Storage struct {
	mu   sync.RWMutex
	docs map[string]string

	// SetErr, when non-nil, is returned by Set without storing anything.
	SetErr error
}

// New creates a new in-memory storage.
func New() *Storage {
	return &Storage{docs: make(map[string]string)}
}

// Get retrieves the document stored under key.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

// Set replaces the document stored under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.docs[key] = value
	return nil
}
