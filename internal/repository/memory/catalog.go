// Package memory provides mutex-guarded in-memory repositories. They
// back local runs and tests; the filestore package provides the
// durable alternative.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tierforge/tierforge/internal/domain/catalog"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

type CatalogRepository struct {
	mu     sync.RWMutex
	models map[string]*catalog.SubscriptionModel
}

var _ catalog.Repository = (*CatalogRepository)(nil)

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{models: make(map[string]*catalog.SubscriptionModel)}
}

func (r *CatalogRepository) Create(ctx context.Context, model *catalog.SubscriptionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[model.ID]; ok {
		return ierr.NewErrorf("subscription model %s already exists", model.ID).
			WithReportableDetails(map[string]interface{}{"model_id": model.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	r.models[model.ID] = model
	return nil
}

func (r *CatalogRepository) Get(ctx context.Context, id string) (*catalog.SubscriptionModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	model, ok := r.models[id]
	if !ok || model.Status == types.StatusDeleted {
		return nil, ierr.NewErrorf("subscription model %s not found", id).
			WithReportableDetails(map[string]interface{}{"model_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return model, nil
}

func (r *CatalogRepository) Update(ctx context.Context, model *catalog.SubscriptionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[model.ID]; !ok {
		return ierr.NewErrorf("subscription model %s not found", model.ID).
			WithReportableDetails(map[string]interface{}{"model_id": model.ID}).
			Mark(ierr.ErrNotFound)
	}
	r.models[model.ID] = model
	return nil
}

func (r *CatalogRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*catalog.SubscriptionModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.SubscriptionModel, 0, len(r.models))
	for _, model := range r.models {
		if model.Status == types.StatusDeleted {
			continue
		}
		if filter != nil && filter.Status != nil && model.Status != *filter.Status {
			continue
		}
		out = append(out, model)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter), nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[id]; !ok {
		return ierr.NewErrorf("subscription model %s not found", id).
			WithReportableDetails(map[string]interface{}{"model_id": id}).
			Mark(ierr.ErrNotFound)
	}
	delete(r.models, id)
	return nil
}

func paginate[T any](items []T, filter *types.QueryFilter) []T {
	if filter == nil {
		return items
	}
	offset := filter.GetOffset()
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	limit := filter.GetLimit()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
