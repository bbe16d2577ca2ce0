// Package repository wires concrete storage backends to the domain
// repository interfaces based on configuration.
package repository

import (
	"github.com/tierforge/tierforge/internal/config"
	"github.com/tierforge/tierforge/internal/domain/catalog"
	"github.com/tierforge/tierforge/internal/domain/payment"
	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/repository/filestore"
	"github.com/tierforge/tierforge/internal/repository/memory"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// Repositories bundles one repository per entity, all backed by the
// same storage type.
type Repositories struct {
	Catalog       catalog.Repository
	Transaction   payment.Repository
	PaymentMethod paymentmethod.Repository
}

// New builds the repository set for the configured storage backend.
func New(cfg *config.Configuration, log *logger.Logger) (*Repositories, error) {
	switch cfg.Storage.Type {
	case StorageMemory, "":
		log.Debugw("using in-memory storage")
		return &Repositories{
			Catalog:       memory.NewCatalogRepository(),
			Transaction:   memory.NewTransactionRepository(),
			PaymentMethod: memory.NewPaymentMethodRepository(),
		}, nil
	case StorageFile:
		log.Infow("using file storage", "dir", cfg.Storage.Dir)
		catalogRepo, err := filestore.NewCatalogRepository(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		txnRepo, err := filestore.NewTransactionRepository(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		pmRepo, err := filestore.NewPaymentMethodRepository(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Catalog:       catalogRepo,
			Transaction:   txnRepo,
			PaymentMethod: pmRepo,
		}, nil
	default:
		return nil, ierr.NewErrorf("unsupported storage type: %s", cfg.Storage.Type).
			WithHint("Storage type must be memory or file").
			Mark(ierr.ErrValidation)
	}
}
