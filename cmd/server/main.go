package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tierforge/tierforge/internal/api"
	"github.com/tierforge/tierforge/internal/cache"
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/gateway"
	"github.com/tierforge/tierforge/internal/gateway/httpgw"
	"github.com/tierforge/tierforge/internal/gateway/simulated"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/repository"
	"github.com/tierforge/tierforge/internal/service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.L.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.L.Fatalf("invalid configuration: %v", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		logger.L.Fatalf("failed to initialize logger: %v", err)
	}

	appCache := cache.Initialize(cfg, log)

	repos, err := repository.New(cfg, log)
	if err != nil {
		log.Fatalf("failed to initialize repositories: %v", err)
	}

	registry := gateway.NewRegistry()
	registry.Register(gateway.BackendSimulated, simulated.New(log))
	if cfg.Gateway.Backend == "http" {
		registry.Register(gateway.BackendHTTP, httpgw.NewClient(cfg.Gateway, log))
		if err := registry.SetDefault(gateway.BackendHTTP); err != nil {
			log.Fatalf("failed to select gateway backend: %v", err)
		}
	}

	params := service.ServiceParams{
		Logger:            log,
		Config:            cfg,
		Cache:             appCache,
		CatalogRepo:       repos.Catalog,
		TransactionRepo:   repos.Transaction,
		PaymentMethodRepo: repos.PaymentMethod,
		GatewayRegistry:   registry,
		RetryPolicy: gateway.RetryPolicy{
			MaxAttempts:    cfg.Gateway.MaxRetries,
			InitialBackoff: cfg.Gateway.InitialBackoff,
			CallTimeout:    cfg.Gateway.Timeout,
		},
	}

	services := api.Services{
		Catalog:       service.NewCatalogService(params),
		Pricing:       service.NewPricingService(params),
		Projection:    service.NewProjectionService(params),
		PaymentMethod: service.NewPaymentMethodService(params),
		Transaction:   service.NewTransactionService(params),
	}

	handlers := api.NewHandlers(services, log)
	router := api.NewRouter(handlers, api.RouterConfig{Mode: cfg.Deployment.Mode}, log)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
}
