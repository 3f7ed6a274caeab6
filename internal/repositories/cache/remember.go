package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"agency/internal/repositories"

	"github.com/google/uuid"
)

// generationPrefix keeps generation markers out of the global: namespace,
// so DelPattern over a collection never removes them.
const generationPrefix = "gen:"

// Remember is the read-through path: serve key from the cache when present,
// otherwise load from the store, populate the cache and return. Cache
// failures never fail the read; they are logged and the store answers.
// A load that overlaps an invalidation of the same collection is returned
// but not cached.
func Remember[T any](
	ctx context.Context,
	gw repositories.CacheRepository,
	log *slog.Logger,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	if raw, ok, err := gw.Get(ctx, key); err != nil {
		log.Warn("cache read failed, falling back to store", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		log.Warn("discarding undecodable cache entry", "key", key)
	}

	genKey := generationKey(key)
	before := generation(ctx, gw, log, genKey)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if after := generation(ctx, gw, log, genKey); after != before {
		log.Debug("collection invalidated during load, not caching", "key", key)
		return value, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn("failed to encode cache entry", "key", key, "error", err)
		return value, nil
	}
	if err := gw.Set(ctx, key, string(data), ttl); err != nil {
		log.Warn("failed to populate cache", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate deletes every key under each prefix. It is called after the
// store write succeeded; failures are logged since the write already stands.
func Invalidate(ctx context.Context, gw repositories.CacheRepository, log *slog.Logger, prefixes ...string) {
	for _, prefix := range prefixes {
		bump(ctx, gw, log, prefix)
		if err := gw.DelPattern(ctx, prefix); err != nil {
			log.Error("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

// Forget deletes exact keys, for projections whose key is a prefix of
// sibling keys (global:payments:policy:1 vs global:payments:policy:12).
func Forget(ctx context.Context, gw repositories.CacheRepository, log *slog.Logger, keys ...string) {
	for _, key := range keys {
		bump(ctx, gw, log, key)
	}
	if err := gw.Del(ctx, keys...); err != nil {
		log.Error("cache invalidation failed", "keys", keys, "error", err)
	}
}

// generationKey names the marker of the collection owning key:
// global:cards:customer:7 and global:cards: both map to gen:global:cards:.
func generationKey(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return generationPrefix + key
	}
	return generationPrefix + parts[0] + ":" + parts[1] + ":"
}

func generation(ctx context.Context, gw repositories.CacheRepository, log *slog.Logger, genKey string) string {
	gen, _, err := gw.Get(ctx, genKey)
	if err != nil {
		log.Warn("cache generation read failed", "key", genKey, "error", err)
	}
	return gen
}

// bump runs before the delete so a load that read the store before the
// write either sees the new generation or has its entry deleted.
func bump(ctx context.Context, gw repositories.CacheRepository, log *slog.Logger, key string) {
	genKey := generationKey(key)
	if err := gw.Set(ctx, genKey, uuid.NewString(), repositories.NoExpiration); err != nil {
		log.Warn("cache generation bump failed", "key", genKey, "error", err)
	}
}
