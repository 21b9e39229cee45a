package cart

import (
	"context"
	"encoding/json"
	"sync"
)

type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{carts: map[string][]byte{}} }

func memKey(storeID, id string) string { return storeID + "\x00" + id }

// Carts are stored encoded so callers never share slices with the store.
func (m *MemoryStore) Get(_ context.Context, storeID, id string) (*Cart, error) {
	m.mu.RLock()
	b, ok := m.carts[memKey(storeID, id)]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *MemoryStore) Save(_ context.Context, c *Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.carts[memKey(c.StoreID, c.ID)] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, storeID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[memKey(storeID, id)]; !ok {
		return ErrNotFound
	}
	delete(m.carts, memKey(storeID, id))
	return nil
}
