// Package cache provides a small cache abstraction used to memoize hot
// catalog lookups.
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for cache implementations
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

const ExpiryDefaultInMemory = 30 * time.Minute

// TypedGet attempts to convert a cached value to the requested type.
func TypedGet[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}
	if typed, ok := value.(*T); ok {
		return typed, true
	}
	return nil, false
}
