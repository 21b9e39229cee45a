package settings

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("option not found")

// Store persists raw JSON option values keyed by store and field name.
type Store interface {
	// Get returns ErrNotFound when the option was never saved.
	Get(ctx context.Context, storeID, name string) ([]byte, error)
	Put(ctx context.Context, storeID, name string, value []byte) error
}

type MemoryStore struct {
	mu   sync.RWMutex
	vals map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{vals: map[string][]byte{}} }

func (m *MemoryStore) Get(_ context.Context, storeID, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[storeID+"\x00"+name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Put(_ context.Context, storeID, name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[storeID+"\x00"+name] = append([]byte(nil), value...)
	return nil
}
