package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zero-day-ai/kgcn/traverse"
)

// Memory implements Cache with an in-process map. It is intended for
// single-worker runs and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	closed  bool
}

type memoryEntry struct {
	records  []traverse.Record
	deadline time.Time // zero means no expiry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get returns the records cached under key, or ErrMiss. Expired entries are
// treated as misses and dropped lazily.
func (m *Memory) Get(_ context.Context, key Key) ([]traverse.Record, error) {
	m.mu.RLock()
	entry, ok := m.entries[key.String()]
	closed := m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if !ok {
		return nil, ErrMiss
	}
	if !entry.deadline.IsZero() && time.Now().After(entry.deadline) {
		m.mu.Lock()
		delete(m.entries, key.String())
		m.mu.Unlock()
		return nil, ErrMiss
	}

	// Copy so callers cannot mutate the cached slice.
	out := make([]traverse.Record, len(entry.records))
	copy(out, entry.records)
	return out, nil
}

// Put stores records under key with the given TTL.
func (m *Memory) Put(_ context.Context, key Key, records []traverse.Record, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	stored := make([]traverse.Record, len(records))
	copy(stored, records)

	entry := memoryEntry{records: stored}
	if ttl > 0 {
		entry.deadline = time.Now().Add(ttl)
	}
	m.entries[key.String()] = entry
	return nil
}

// Close drops all entries and marks the cache closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.closed = true
	return nil
}
