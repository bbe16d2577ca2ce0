package filestore

import (
	"context"
	"sort"

	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

type PaymentMethodRepository struct {
	store *docStore[paymentmethod.PaymentMethod]
}

var _ paymentmethod.Repository = (*PaymentMethodRepository)(nil)

func NewPaymentMethodRepository(baseDir string) (*PaymentMethodRepository, error) {
	store, err := newDocStore[paymentmethod.PaymentMethod](baseDir, "payment_methods")
	if err != nil {
		return nil, err
	}
	return &PaymentMethodRepository{store: store}, nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	if r.store.exists(pm.ID) {
		return ierr.NewErrorf("payment method %s already exists", pm.ID).
			WithReportableDetails(map[string]interface{}{"payment_method_id": pm.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return r.store.write(ctx, pm.ID, pm)
}

func (r *PaymentMethodRepository) Get(ctx context.Context, id string) (*paymentmethod.PaymentMethod, error) {
	pm, err := r.store.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if pm.Status == types.StatusDeleted {
		return nil, ierr.NewErrorf("payment method %s not found", id).
			WithReportableDetails(map[string]interface{}{"payment_method_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return pm, nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	if !r.store.exists(pm.ID) {
		return ierr.NewErrorf("payment method %s not found", pm.ID).
			WithReportableDetails(map[string]interface{}{"payment_method_id": pm.ID}).
			Mark(ierr.ErrNotFound)
	}
	return r.store.write(ctx, pm.ID, pm)
}

func (r *PaymentMethodRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*paymentmethod.PaymentMethod, error) {
	all, err := r.store.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*paymentmethod.PaymentMethod, 0, len(all))
	for _, pm := range all {
		if pm.Status == types.StatusDeleted {
			continue
		}
		if filter != nil && filter.Status != nil && pm.Status != *filter.Status {
			continue
		}
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return applyPagination(out, filter), nil
}

func (r *PaymentMethodRepository) ListByCustomer(ctx context.Context, customerID string) ([]*paymentmethod.PaymentMethod, error) {
	all, err := r.store.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*paymentmethod.PaymentMethod, 0)
	for _, pm := range all {
		if pm.CustomerID != customerID || pm.Status == types.StatusDeleted {
			continue
		}
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}
