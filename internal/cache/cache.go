package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache tracks which article URLs were already published. Lookups are
// best-effort: a cache failure must never fail a run.
type Cache interface {
	IsPosted(ctx context.Context, url string) (bool, error)
	MarkPosted(ctx context.Context, url string, ttl time.Duration) error
	Close() error
}

// key hashes a canonical article URL into a fixed-width cache key.
func key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
