package cache

import (
	"context"
	"time"

	"github.com/furnishly/backend/internal/domain"
)

// NoopCache never stores anything. Used when cache.type is "none".
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (interface{}, error) {
	return nil, domain.ErrCacheMiss
}

func (NoopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (NoopCache) Delete(ctx context.Context, key string) error { return nil }

func (NoopCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

// New returns the cache for the configured type: "memory" or "none"
func New(cacheType string) domain.CacheRepository {
	if cacheType == "none" {
		return NoopCache{}
	}
	return NewMemoryCache()
}
