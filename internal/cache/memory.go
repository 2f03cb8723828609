package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is the in-process fallback used when Redis is not configured,
// and in tests. Entries expire lazily on lookup.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]time.Time)}
}

func (m *MemoryCache) Close() error {
	return nil
}

func (m *MemoryCache) IsPosted(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.entries[key(url)]
	if !ok {
		return false, nil
	}
	if !expiry.IsZero() && time.Now().After(expiry) {
		delete(m.entries, key(url))
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) MarkPosted(ctx context.Context, url string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiry time.Time
	if ttl > 0 {
		expiry = time.Now().Add(ttl)
	}
	m.entries[key(url)] = expiry
	return nil
}
