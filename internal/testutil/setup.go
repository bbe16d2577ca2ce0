// Package testutil provides shared fixtures for service and domain
// tests.
package testutil

import (
	"context"
	"time"

	"github.com/tierforge/tierforge/internal/cache"
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/gateway/simulated"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/repository/memory"
	"github.com/tierforge/tierforge/internal/types"
)

// SetupContext returns a context carrying the identifiers services
// expect at request time.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	ctx = context.WithValue(ctx, types.CtxUserID, "user_test")
	return ctx
}

// Stores bundles in-memory repositories for tests.
type Stores struct {
	Catalog       *memory.CatalogRepository
	Transaction   *memory.TransactionRepository
	PaymentMethod *memory.PaymentMethodRepository
}

func NewInMemoryStores() *Stores {
	return &Stores{
		Catalog:       memory.NewCatalogRepository(),
		Transaction:   memory.NewTransactionRepository(),
		PaymentMethod: memory.NewPaymentMethodRepository(),
	}
}

func NewTestLogger() *logger.Logger {
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	return log
}

func NewTestCache() cache.Cache {
	return cache.NewInMemoryCache()
}

// NewTestGatewayRegistry returns a registry backed by the simulated
// gateway.
func NewTestGatewayRegistry(log *logger.Logger) *gateway.Registry {
	registry := gateway.NewRegistry()
	registry.Register(gateway.BackendSimulated, simulated.New(log))
	return registry
}

// FastRetryPolicy keeps retry waits negligible in tests.
func FastRetryPolicy() gateway.RetryPolicy {
	return gateway.RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		CallTimeout:    time.Second,
	}
}
