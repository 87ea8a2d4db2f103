package kv

import (
	"context"
	"sync"
)

// MemoryTier implements Tier with an in-process map. It is the backup tier:
// it lives and dies with the process, the same way tab-scoped storage lives
// and dies with the tab.
type MemoryTier struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryTier creates an empty in-memory tier.
func NewMemoryTier() *MemoryTier {
	return &MemoryTier{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value so callers cannot mutate tier state.
func (m *MemoryTier) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value under key.
func (m *MemoryTier) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = stored
	return nil
}

// Delete removes key.
func (m *MemoryTier) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
