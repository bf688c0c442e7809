package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache used when no Redis is configured.
// Entries are lost on restart and not shared between replicas.
type CacheService struct {
	cache *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultExpiration, cleanupInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultExpiration, cleanupInterval)}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

// ItemCount reports live entries; the health check exposes it.
func (cs *CacheService) ItemCount() int {
	return cs.cache.ItemCount()
}

// Close is a no-op for the in-memory cache
func (cs *CacheService) Close() error {
	return nil
}
