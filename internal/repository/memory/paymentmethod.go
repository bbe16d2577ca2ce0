package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tierforge/tierforge/internal/domain/paymentmethod"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

type PaymentMethodRepository struct {
	mu      sync.RWMutex
	methods map[string]*paymentmethod.PaymentMethod
}

var _ paymentmethod.Repository = (*PaymentMethodRepository)(nil)

func NewPaymentMethodRepository() *PaymentMethodRepository {
	return &PaymentMethodRepository{methods: make(map[string]*paymentmethod.PaymentMethod)}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[pm.ID]; ok {
		return ierr.NewErrorf("payment method %s already exists", pm.ID).
			WithReportableDetails(map[string]interface{}{"payment_method_id": pm.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	r.methods[pm.ID] = pm
	return nil
}

func (r *PaymentMethodRepository) Get(ctx context.Context, id string) (*paymentmethod.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pm, ok := r.methods[id]
	if !ok || pm.Status == types.StatusDeleted {
		return nil, paymentMethodNotFound(id)
	}
	return pm, nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, pm *paymentmethod.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[pm.ID]; !ok {
		return paymentMethodNotFound(pm.ID)
	}
	r.methods[pm.ID] = pm
	return nil
}

func (r *PaymentMethodRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*paymentmethod.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*paymentmethod.PaymentMethod, 0, len(r.methods))
	for _, pm := range r.methods {
		if pm.Status == types.StatusDeleted {
			continue
		}
		if filter != nil && filter.Status != nil && pm.Status != *filter.Status {
			continue
		}
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter), nil
}

func (r *PaymentMethodRepository) ListByCustomer(ctx context.Context, customerID string) ([]*paymentmethod.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*paymentmethod.PaymentMethod, 0)
	for _, pm := range r.methods {
		if pm.CustomerID != customerID || pm.Status == types.StatusDeleted {
			continue
		}
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return paymentMethodNotFound(id)
	}
	delete(r.methods, id)
	return nil
}

func paymentMethodNotFound(id string) error {
	return ierr.NewErrorf("payment method %s not found", id).
		WithReportableDetails(map[string]interface{}{"payment_method_id": id}).
		Mark(ierr.ErrNotFound)
}
