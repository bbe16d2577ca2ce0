package cache

import (
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/logger"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"
)

// Initialize initializes the cache system based on the specified type
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("Initializing cache system", "type", cfg.Cache.Type)

	// Only the in-memory backend exists today; the switch keeps the
	// wiring shape for future backends.
	var c Cache
	switch CacheType(cfg.Cache.Type) {
	case CacheTypeInMemory:
		fallthrough
	default:
		InitializeInMemoryCache()
		c = GetInMemoryCache()
	}

	log.Infow("Cache system initialized", "type", cfg.Cache.Type)
	return c
}
