// Package cache persists the last known authentication snapshot and the
// raw bearer token across process restarts. The cache layer stamps every
// write with its time and refuses to hand back entries older than a fixed
// TTL; the underlying Store is a dumb key-value surface so the same code
// runs over a local file, Redis, or process memory.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by a Store when the key has no value. Every
// other Store error is treated by the cache layer as a miss as well, so
// storage trouble degrades the cache instead of failing the operation.
var ErrNotFound = errors.New("cache: entry not found")

// Storage keys. They are shared by every store implementation so a
// deployment can switch backends without losing naming compatibility.
const (
	SnapshotKey = "authResponseCache"
	TokenKey    = "authToken"
)

// Store is a minimal durable key-value surface. Writes are atomic per key
// and last-write-wins; a ttl of zero means no automatic expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It is the default backend when no
// durable store is configured and the workhorse of the test suites.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expiresAt.IsZero() && !time.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Delete implements Store. Deleting an absent key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
