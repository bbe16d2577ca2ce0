package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache implements the Cache interface using go-cache
type InMemoryCache struct {
	cache *gocache.Cache
}

var inMemoryCache *InMemoryCache

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: gocache.New(ExpiryDefaultInMemory, 10*time.Minute),
	}
}

// InitializeInMemoryCache initializes the global in-memory cache instance
func InitializeInMemoryCache() {
	if inMemoryCache == nil {
		inMemoryCache = NewInMemoryCache()
	}
}

// GetInMemoryCache returns the global in-memory cache instance
func GetInMemoryCache() *InMemoryCache {
	if inMemoryCache == nil {
		InitializeInMemoryCache()
	}
	return inMemoryCache
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if expiration <= 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *InMemoryCache) Flush(ctx context.Context) {
	c.cache.Flush()
}
