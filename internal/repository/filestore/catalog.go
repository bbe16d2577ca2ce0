package filestore

import (
	"context"
	"sort"

	"github.com/tierforge/tierforge/internal/domain/catalog"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

type CatalogRepository struct {
	store *docStore[catalog.SubscriptionModel]
}

var _ catalog.Repository = (*CatalogRepository)(nil)

func NewCatalogRepository(baseDir string) (*CatalogRepository, error) {
	store, err := newDocStore[catalog.SubscriptionModel](baseDir, "subscription_models")
	if err != nil {
		return nil, err
	}
	return &CatalogRepository{store: store}, nil
}

func (r *CatalogRepository) Create(ctx context.Context, model *catalog.SubscriptionModel) error {
	if r.store.exists(model.ID) {
		return ierr.NewErrorf("subscription model %s already exists", model.ID).
			WithReportableDetails(map[string]interface{}{"model_id": model.ID}).
			Mark(ierr.ErrAlreadyExists)
	}
	return r.store.write(ctx, model.ID, model)
}

func (r *CatalogRepository) Get(ctx context.Context, id string) (*catalog.SubscriptionModel, error) {
	model, err := r.store.read(ctx, id)
	if err != nil {
		return nil, err
	}
	if model.Status == types.StatusDeleted {
		return nil, ierr.NewErrorf("subscription model %s not found", id).
			WithReportableDetails(map[string]interface{}{"model_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return model, nil
}

func (r *CatalogRepository) Update(ctx context.Context, model *catalog.SubscriptionModel) error {
	if !r.store.exists(model.ID) {
		return ierr.NewErrorf("subscription model %s not found", model.ID).
			WithReportableDetails(map[string]interface{}{"model_id": model.ID}).
			Mark(ierr.ErrNotFound)
	}
	return r.store.write(ctx, model.ID, model)
}

func (r *CatalogRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*catalog.SubscriptionModel, error) {
	all, err := r.store.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.SubscriptionModel, 0, len(all))
	for _, model := range all {
		if model.Status == types.StatusDeleted {
			continue
		}
		if filter != nil && filter.Status != nil && model.Status != *filter.Status {
			continue
		}
		out = append(out, model)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return applyPagination(out, filter), nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	return r.store.remove(ctx, id)
}

func applyPagination[T any](items []T, filter *types.QueryFilter) []T {
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
