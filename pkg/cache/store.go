package cache

import (
	"context"
	"sync"
)

// Store is a string-keyed blob store holding last-known-good values.
// Values never expire and are not versioned.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Stats returns storage statistics (for debugging/monitoring)
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close releases the underlying resources.
	Close() error
}

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

// Set implements Store
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Stats implements Store
func (m *MemoryStore) Stats(context.Context) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"keys":         len(m.values),
		"storage_type": "memory",
	}, nil
}

// Close implements Store
func (m *MemoryStore) Close() error {
	return nil
}
