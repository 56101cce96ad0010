// internal/store/memory.go
//
// In-memory implementation of arena.Store. Sessions live in a map keyed by
// id; concurrency-safe via RWMutex. State is lost when the process restarts,
// which is acceptable for live matches — finished results are persisted to
// the database by the HTTP layer.

package store

import (
	"context"
	"sync"

	"github.com/stonegarden/goban/internal/arena"
)

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*arena.Session
}

// NewMemory constructs an empty in-memory session store.
func NewMemory() arena.Store {
	return &memory{sessions: make(map[string]*arena.Session)}
}

// Save adds or updates the session.
func (m *memory) Save(ctx context.Context, sess *arena.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

// Get looks up a session by id; arena.ErrNotFound if missing.
func (m *memory) Get(ctx context.Context, id string) (*arena.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	return nil, arena.ErrNotFound
}
