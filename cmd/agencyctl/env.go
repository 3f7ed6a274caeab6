package main

import (
	"context"
	"log/slog"

	"agency/internal/config"
	"agency/internal/logger"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"

	"gorm.io/gorm"
)

// env holds the connections a command needs. Close releases them.
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *gorm.DB
	cache *cache.CacheService
}

func openEnv(ctx context.Context, withDB bool) (*env, error) {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: logger.New(cfg.Env)}

	if withDB {
		e.db, err = repositories.InitDB(cfg.DB)
		if err != nil {
			return nil, err
		}
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.cache = cache.NewCacheService(client, cache.WithLogger(e.log))
	return e, nil
}

func (e *env) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.log.Warn("failed to close redis", "error", err)
		}
	}
	if err := repositories.Close(e.db); err != nil {
		e.log.Warn("failed to close database", "error", err)
	}
}
