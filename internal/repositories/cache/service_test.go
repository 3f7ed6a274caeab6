package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheService(client, opts...), mr
}

func TestCacheService_GetSet(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	t.Run("miss returns not found without error", func(t *testing.T) {
		val, ok, err := svc.Get(ctx, "global:cards:all")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("set with ttl expires", func(t *testing.T) {
		require.NoError(t, svc.Set(ctx, "global:cards:all", "[]", 32400*time.Second))

		val, ok, err := svc.Get(ctx, "global:cards:all")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", val)
		assert.Equal(t, 32400*time.Second, mr.TTL("global:cards:all"))

		mr.FastForward(32401 * time.Second)
		_, ok, err = svc.Get(ctx, "global:cards:all")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		require.NoError(t, svc.Set(ctx, "global:banks:all", "[]", 0))
		assert.Equal(t, time.Duration(0), mr.TTL("global:banks:all"))

		mr.FastForward(365 * 24 * time.Hour)
		assert.True(t, mr.Exists("global:banks:all"))
	})
}

func TestCacheService_Del(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	require.NoError(t, svc.Del(ctx, "a", "b", "missing"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
	assert.NoError(t, svc.Del(ctx))
}

func TestCacheService_DelPattern(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	for _, key := range []string{
		"global:cards:all",
		"global:cards:customer:1",
		"global:cards:customer:2",
		"global:policies:all",
		"global:cardsextra",
	} {
		require.NoError(t, mr.Set(key, "x"))
	}

	require.NoError(t, svc.DelPattern(ctx, "global:cards:"))

	assert.False(t, mr.Exists("global:cards:all"))
	assert.False(t, mr.Exists("global:cards:customer:1"))
	assert.False(t, mr.Exists("global:cards:customer:2"))
	assert.True(t, mr.Exists("global:policies:all"))
	assert.True(t, mr.Exists("global:cardsextra"), "prefix must stop at the delimiter")

	assert.Error(t, svc.DelPattern(ctx, ""))
}

func TestCacheService_DelPatternManyKeys(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3*scanBatch; i++ {
		require.NoError(t, mr.Set("global:payments:policy:"+strconv.Itoa(i), "x"))
	}
	require.NoError(t, svc.DelPattern(ctx, "global:payments:"))
	assert.Empty(t, mr.Keys())
}

func TestCacheService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, _ := newTestService(t, WithRegisterer(reg))
	ctx := context.Background()

	_, _, _ = svc.Get(ctx, "k")
	require.NoError(t, svc.Set(ctx, "k", "v", time.Minute))
	_, _, _ = svc.Get(ctx, "k")
	_, _, _ = svc.Get(ctx, "k")

	counts := map[string]float64{}
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "agency_cache_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counts["miss"])
	assert.Equal(t, float64(2), counts["hit"])
}

func TestCacheService_Lease(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	const key = "lock:reconcile:cards"

	ok, err := svc.Acquire(ctx, key, "server", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Hour, mr.TTL(key))

	ok, err = svc.Acquire(ctx, key, "agencyctl", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "held lease is not handed out twice")

	require.NoError(t, svc.Release(ctx, key, "agencyctl"))
	assert.True(t, mr.Exists(key), "only the holder can release")

	require.NoError(t, svc.Release(ctx, key, "server"))
	assert.False(t, mr.Exists(key))

	ok, err = svc.Acquire(ctx, key, "agencyctl", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheService_LeaseSurvivesCollectionInvalidation(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	ok, err := svc.Acquire(ctx, "lock:reconcile:cards", "server", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.DelPattern(ctx, "global:cards:"))
	assert.True(t, mr.Exists("lock:reconcile:cards"))
}
