package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestRemember(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	log := logger.Discard()

	loads := 0
	load := func(context.Context) ([]item, error) {
		loads++
		return []item{{ID: 1, Name: "first"}}, nil
	}

	t.Run("miss loads and populates", func(t *testing.T) {
		got, err := Remember(ctx, svc, log, "global:items:all", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []item{{ID: 1, Name: "first"}}, got)
		assert.Equal(t, 1, loads)
		assert.True(t, mr.Exists("global:items:all"))
		assert.Equal(t, time.Hour, mr.TTL("global:items:all"))
	})

	t.Run("hit skips the store", func(t *testing.T) {
		got, err := Remember(ctx, svc, log, "global:items:all", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []item{{ID: 1, Name: "first"}}, got)
		assert.Equal(t, 1, loads)
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		Invalidate(ctx, svc, log, "global:items:")
		_, err := Remember(ctx, svc, log, "global:items:all", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, 2, loads)
	})

	t.Run("undecodable entry is reloaded", func(t *testing.T) {
		require.NoError(t, mr.Set("global:items:all", "{not json"))
		got, err := Remember(ctx, svc, log, "global:items:all", time.Hour, load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, 3, loads)
	})
}

func TestRemember_LoadErrorIsNotCached(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	boom := errors.New("db down")
	_, err := Remember(ctx, svc, logger.Discard(), "global:items:all", time.Hour, func(context.Context) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("global:items:all"))
}

func TestRemember_CacheDownFallsBackToStore(t *testing.T) {
	svc, mr := newTestService(t)
	mr.Close()

	got, err := Remember(context.Background(), svc, logger.Discard(), "global:items:all", time.Hour, func(context.Context) ([]item, error) {
		return []item{{ID: 9}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), got[0].ID)
}

func TestRemember_InvalidationDuringLoadIsNotCached(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	log := logger.Discard()

	// The store is read, then a concurrent writer updates it and
	// invalidates the collection before the stale read is cached.
	got, err := Remember(ctx, svc, log, "global:items:all", time.Hour, func(ctx context.Context) ([]item, error) {
		stale := []item{{ID: 1, Name: "before write"}}
		Invalidate(ctx, svc, log, "global:items:")
		return stale, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1, Name: "before write"}}, got)
	assert.False(t, mr.Exists("global:items:all"))

	loads := 0
	got, err = Remember(ctx, svc, log, "global:items:all", time.Hour, func(context.Context) ([]item, error) {
		loads++
		return []item{{ID: 1, Name: "after write"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, "after write", got[0].Name)
	assert.True(t, mr.Exists("global:items:all"))
}

func TestRemember_ForgetDuringLoadIsNotCached(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()
	log := logger.Discard()

	_, err := Remember(ctx, svc, log, "global:payments:policy:1", time.Hour, func(ctx context.Context) ([]item, error) {
		Forget(ctx, svc, log, "global:payments:policy:1")
		return []item{{ID: 5}}, nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("global:payments:policy:1"))
}

func TestGenerationKey(t *testing.T) {
	tests := map[string]string{
		"global:cards:all":          "gen:global:cards:",
		"global:cards:customer:7":   "gen:global:cards:",
		"global:cards:":             "gen:global:cards:",
		"global:payments:policy:12": "gen:global:payments:",
		"standalone":                "gen:standalone",
	}
	for key, want := range tests {
		assert.Equal(t, want, generationKey(key), key)
	}
}
