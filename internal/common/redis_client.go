package common

import (
	"time"

	"github.com/redis/go-redis/v9"

	"despachos/rndc-gateway/internal/config"
	"despachos/rndc-gateway/internal/logging"
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	logging.Info("Initializing Redis client", "addr", cfg.Addr(), "db", cfg.DB)

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// NewCache picks Redis when configured and reachable, otherwise the
// in-memory cache.
func NewCache(cfg config.RedisConfig) CacheInterface {
	if !cfg.Enabled() {
		logging.Info("Using in-memory cache")
		return NewCacheService(10*time.Minute, 5*time.Minute)
	}

	svc, err := NewRedisCacheService(NewRedisClient(cfg))
	if err != nil {
		logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
		return NewCacheService(10*time.Minute, 5*time.Minute)
	}
	logging.Info("Using Redis cache", "addr", cfg.Addr())
	return svc
}
