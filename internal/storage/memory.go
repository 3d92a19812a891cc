package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Values are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	slots   map[string][]byte
	updated map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots:   make(map[string][]byte),
		updated: make(map[string]time.Time),
	}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = append([]byte(nil), value...)
	m.updated[key] = time.Now().UTC()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, key)
	delete(m.updated, key)
	return nil
}

// UpdatedAt implements Timestamper.
func (m *MemoryStore) UpdatedAt(_ context.Context, key string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.updated[key]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return t, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored slots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}
