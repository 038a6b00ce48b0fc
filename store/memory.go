package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-session"
)

// MemoryStore keeps the session in process memory. Ephemeral installs and
// tests use it; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	current session.Session
}

var _ session.TokenStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Normalize(), nil
}

func (m *MemoryStore) Set(ctx context.Context, s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s.Normalize()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = session.Session{}
	return nil
}
