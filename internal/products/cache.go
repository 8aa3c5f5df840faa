package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/redis"
)

const (
	cacheKeyFeatured   = "featured"
	cacheKeyPromo      = "promo"
	cacheKeyCategories = "categories"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CatalogKey(parts ...string) string
}

// CatalogCache keeps homepage reads in Redis. Concurrent misses for the same key
// share one database query.
type CatalogCache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
	group singleflight.Group
}

func NewCatalogCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *CatalogCache {
	return &CatalogCache{store: store, ttl: ttl, logg: logg}
}

// Invalidate drops every cached catalog read.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Del(ctx,
		c.store.CatalogKey(cacheKeyFeatured),
		c.store.CatalogKey(cacheKeyPromo),
		c.store.CatalogKey(cacheKeyCategories),
	)
}

// loadCached serves name from the cache, or runs fetch once and stores its result.
// Cache errors degrade to a direct fetch.
func loadCached[T any](ctx context.Context, c *CatalogCache, name string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil || c.store == nil {
		return fetch(ctx)
	}
	key := c.store.CatalogKey(name)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		jsonErr := json.Unmarshal([]byte(raw), &cached)
		if jsonErr == nil {
			return cached, nil
		}
		c.warn(ctx, key, "catalog.cache_decode_failed", jsonErr)
	case !errors.Is(err, redis.ErrNil):
		c.warn(ctx, key, "catalog.cache_read_failed", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		fresh, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(fresh); err == nil {
			if setErr := c.store.Set(ctx, key, data, c.ttl); setErr != nil {
				c.warn(ctx, key, "catalog.cache_write_failed", setErr)
			}
		}
		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *CatalogCache) warn(ctx context.Context, key, event string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), event)
}
