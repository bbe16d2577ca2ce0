package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/tierforge/tierforge/internal/api/v1"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/rest/middleware"
	"github.com/tierforge/tierforge/internal/service"
	"github.com/tierforge/tierforge/internal/types"
)

// Handlers bundles the v1 HTTP handlers mounted by the router.
type Handlers struct {
	Catalog       *v1.CatalogHandler
	Pricing       *v1.PricingHandler
	Projection    *v1.ProjectionHandler
	PaymentMethod *v1.PaymentMethodHandler
	Transaction   *v1.TransactionHandler
}

func NewHandlers(services Services, log *logger.Logger) Handlers {
	return Handlers{
		Catalog:       v1.NewCatalogHandler(services.Catalog, log),
		Pricing:       v1.NewPricingHandler(services.Pricing, log),
		Projection:    v1.NewProjectionHandler(services.Projection, log),
		PaymentMethod: v1.NewPaymentMethodHandler(services.PaymentMethod, log),
		Transaction:   v1.NewTransactionHandler(services.Transaction, log),
	}
}

// Services groups the service interfaces the API depends on.
type Services struct {
	Catalog       service.CatalogService
	Pricing       service.PricingService
	Projection    service.ProjectionService
	PaymentMethod service.PaymentMethodService
	Transaction   service.TransactionService
}

// NewRouter builds the gin engine with the standard middleware chain
// and all v1 routes.
func NewRouter(handlers Handlers, cfg RouterConfig, log *logger.Logger) *gin.Engine {
	if cfg.Mode == types.RunModeServer {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = log.GetGinLogger()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/v1")

	models := group.Group("/models")
	{
		models.POST("", handlers.Catalog.CreateModel)
		models.GET("", handlers.Catalog.ListModels)
		models.GET("/:id", handlers.Catalog.GetModel)
		models.DELETE("/:id", handlers.Catalog.DeleteModel)
		models.POST("/:id/tiers", handlers.Catalog.AddTier)
		models.POST("/:id/features", handlers.Catalog.AddFeature)
		models.POST("/:id/assignments", handlers.Catalog.AssignFeatureToTier)
		models.PUT("/:id/tiers/:tier_id/price", handlers.Catalog.UpdateTierPrice)
		models.GET("/:id/tiers/:tier_id/features", handlers.Catalog.GetTierFeatures)
	}

	pricing := group.Group("/pricing")
	{
		pricing.POST("/calculate", handlers.Pricing.CalculatePrice)
		pricing.POST("/optimal", handlers.Pricing.CalculateOptimalPrice)
		pricing.POST("/sensitivity", handlers.Pricing.AnalyzePriceSensitivity)
	}

	projections := group.Group("/projections")
	{
		projections.POST("/users", handlers.Projection.ProjectUsers)
		projections.POST("/revenue", handlers.Projection.ProjectRevenue)
		projections.POST("/ltv", handlers.Projection.CalculateLifetimeValue)
		projections.POST("/payback", handlers.Projection.CalculatePaybackPeriod)
		projections.POST("/breakdown", handlers.Projection.CalculateRevenueBreakdown)
	}

	paymentMethods := group.Group("/payment_methods")
	{
		paymentMethods.POST("", handlers.PaymentMethod.AddPaymentMethod)
		paymentMethods.GET("", handlers.PaymentMethod.ListPaymentMethods)
		paymentMethods.GET("/expiring", handlers.PaymentMethod.CheckForExpiringPaymentMethods)
		paymentMethods.GET("/:id", handlers.PaymentMethod.GetPaymentMethod)
		paymentMethods.PUT("/:id", handlers.PaymentMethod.UpdatePaymentMethod)
		paymentMethods.PUT("/:id/default", handlers.PaymentMethod.SetDefaultPaymentMethod)
		paymentMethods.DELETE("/:id", handlers.PaymentMethod.DeletePaymentMethod)
	}

	transactions := group.Group("/transactions")
	{
		transactions.POST("", handlers.Transaction.CreateTransaction)
		transactions.GET("", handlers.Transaction.ListTransactions)
		transactions.GET("/summary", handlers.Transaction.GetTransactionSummary)
		transactions.GET("/:id", handlers.Transaction.GetTransaction)
		transactions.POST("/:id/process", handlers.Transaction.ProcessTransaction)
		transactions.POST("/:id/refund", handlers.Transaction.RefundTransaction)
		transactions.POST("/:id/cancel", handlers.Transaction.CancelTransaction)
		transactions.GET("/:id/history", handlers.Transaction.GetTransactionHistory)
		transactions.GET("/:id/related", handlers.Transaction.GetRelatedTransactions)
	}

	return router
}

// RouterConfig carries the router-level settings.
type RouterConfig struct {
	Mode types.RunMode
}
