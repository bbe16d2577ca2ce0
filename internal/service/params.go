package service

import (
	"github.com/tierforge/tierforge/internal/cache"
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/domain/catalog"
	"github.com/tierforge/tierforge/internal/domain/payment"
	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/logger"
)

// ServiceParams carries the shared dependencies injected into every
// service.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	CatalogRepo       catalog.Repository
	TransactionRepo   payment.Repository
	PaymentMethodRepo paymentmethod.Repository

	GatewayRegistry *gateway.Registry
	RetryPolicy     gateway.RetryPolicy
}
