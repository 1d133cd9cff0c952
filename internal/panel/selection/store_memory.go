// Package selection persists each panel's domain filter so it survives
// process restarts. The in-memory store is the default; Redis is used when
// configured so multiple instances share the operator's view.
package selection

import (
	"context"
	"sync"
)

// InMemoryStore keeps selections for the lifetime of the process.
type InMemoryStore struct {
	mu        sync.RWMutex
	selection map[string]string
}

// NewInMemoryStore creates an empty in-memory selection store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{selection: make(map[string]string)}
}

// Load returns the stored domain for a panel, or "" when none is stored.
func (s *InMemoryStore) Load(_ context.Context, panel string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection[panel], nil
}

// Save stores the domain for a panel.
func (s *InMemoryStore) Save(_ context.Context, panel, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection[panel] = domain
	return nil
}
