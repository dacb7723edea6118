package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store, used by tests and single-node development runs.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	adminID string
	exp     time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, id, adminID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = memEntry{adminID: adminID, exp: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[id]
	if !ok || !m.now().Before(e.exp) {
		delete(m.data, id)
		return "", ErrNotFound
	}
	return e.adminID, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}
