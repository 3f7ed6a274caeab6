package repositories

import (
	"context"
	"time"
)

// CacheRepository is the cache gateway every read path consults and every
// write path invalidates. Values are opaque strings; callers own encoding.
type CacheRepository interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPattern deletes every key starting with prefix.
	DelPattern(ctx context.Context, prefix string) error
}

// NoExpiration marks near-static reference data.
const NoExpiration time.Duration = 0
