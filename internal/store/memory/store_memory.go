// Package memory holds cart and session state for the lifetime of the
// process. It favors clarity over performance, like the other backends'
// test doubles.
package memory

import (
	"context"
	"sync"

	"storefront/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", store.ErrNotFound
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
