package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is the in-process CacheRepository used when Redis is disabled.
// Values are stored JSON-encoded so reads behave like the Redis repository.
type MemoryCache struct {
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]memoryEntry
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now, items: make(map[string]memoryEntry)}
}

// Get decodes the entry into dest or returns appErrors.ErrCacheMiss.
func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt) {
		_ = m.Delete(context.Background(), key)
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value until ttl elapses; a non-positive ttl never expires.
func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes the given keys.
func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.items, key)
	}
	m.mu.Unlock()
	return nil
}
