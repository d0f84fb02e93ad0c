// Package memory is a map-backed kv.Store for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"
)

// Store keeps values in process memory
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

// Get returns the value stored under key
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}
