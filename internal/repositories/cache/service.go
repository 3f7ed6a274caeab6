package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agency/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// scanBatch bounds how many keys a single SCAN round trip returns.
const scanBatch = 200

// CacheService is the Redis-backed cache gateway.
type CacheService struct {
	client   *redis.Client
	logger   *slog.Logger
	requests *prometheus.CounterVec
}

type Option func(*CacheService)

func WithLogger(l *slog.Logger) Option {
	return func(s *CacheService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegisterer records hit/miss counters on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *CacheService) {
		s.requests = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "agency_cache_requests_total",
			Help: "Cache lookups by result (hit, miss, error)",
		}, []string{"result"})
	}
}

func NewCacheService(client *redis.Client, opts ...Option) *CacheService {
	s := &CacheService{
		client: client,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CacheService) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		s.observe("miss")
		return "", false, nil
	}
	if err != nil {
		s.observe("error")
		return "", false, fmt.Errorf("failed to get cache value: %w", err)
	}
	s.observe("hit")
	return val, true, nil
}

func (s *CacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *CacheService) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DelPattern walks the keyspace with SCAN rather than KEYS so a large
// keyspace never blocks the server.
func (s *CacheService) DelPattern(ctx context.Context, prefix string) error {
	if prefix == "" {
		return errors.New("refusing to delete with an empty prefix")
	}
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s*: %w", prefix, err)
			}
			deleted += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	s.logger.Debug("cache keys invalidated", "prefix", prefix, "count", deleted)
	return nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire takes a lease: key is set to token for ttl only if it is absent.
func (s *CacheService) Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease %s: %w", key, err)
	}
	return ok, nil
}

// Release drops a lease only while it still holds token, so an expired
// lease taken over by another process is left alone.
func (s *CacheService) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", key, err)
	}
	return nil
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) observe(result string) {
	if s.requests != nil {
		s.requests.WithLabelValues(result).Inc()
	}
}
