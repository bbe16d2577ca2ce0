package service

import (
	"context"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/cache"
	"github.com/tierforge/tierforge/internal/domain/catalog"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

const cacheKeyModelPrefix = "catalog:model:"

// CatalogService manages subscription models, their tiers, and their
// feature catalog.
type CatalogService interface {
	CreateModel(ctx context.Context, req *dto.CreateSubscriptionModelRequest) (*dto.SubscriptionModelResponse, error)
	GetModel(ctx context.Context, id string) (*dto.SubscriptionModelResponse, error)
	ListModels(ctx context.Context, filter *types.QueryFilter) (*dto.ListSubscriptionModelsResponse, error)
	DeleteModel(ctx context.Context, id string) error
	AddTier(ctx context.Context, modelID string, req *dto.AddTierRequest) (*dto.TierResponse, error)
	AddFeature(ctx context.Context, modelID string, req *dto.AddFeatureRequest) (*dto.FeatureResponse, error)
	AssignFeatureToTier(ctx context.Context, modelID string, req *dto.AssignFeatureRequest) (bool, error)
	UpdateTierPrice(ctx context.Context, modelID string, tierID string, req *dto.UpdateTierPriceRequest) (*dto.TierResponse, error)
	GetTierFeatures(ctx context.Context, modelID string, tierID string) (*dto.TierFeaturesResponse, error)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{ServiceParams: params}
}

func (s *catalogService) CreateModel(ctx context.Context, req *dto.CreateSubscriptionModelRequest) (*dto.SubscriptionModelResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	var model *catalog.SubscriptionModel
	switch req.Type {
	case types.SubscriptionModelTypeFreemium:
		freeTierName := req.FreeTierName
		if freeTierName == "" {
			freeTierName = "Free"
		}
		model = catalog.NewFreemiumModel(ctx, req.Name, freeTierName)
	default:
		model = catalog.NewSubscriptionModel(ctx, req.Name)
	}

	if err := s.CatalogRepo.Create(ctx, model); err != nil {
		return nil, err
	}

	s.Logger.Infow("created subscription model",
		"model_id", model.ID,
		"model_type", model.Type,
		"name", model.Name)
	return &dto.SubscriptionModelResponse{SubscriptionModel: model}, nil
}

func (s *catalogService) GetModel(ctx context.Context, id string) (*dto.SubscriptionModelResponse, error) {
	if id == "" {
		return nil, ierr.NewError("model id is required").
			WithHint("Model id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	if cached, ok := s.Cache.Get(ctx, cacheKeyModelPrefix+id); ok {
		if model, ok := cache.TypedGet[catalog.SubscriptionModel](cached); ok {
			return &dto.SubscriptionModelResponse{SubscriptionModel: model}, nil
		}
	}

	model, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKeyModelPrefix+id, model, cache.ExpiryDefaultInMemory)
	return &dto.SubscriptionModelResponse{SubscriptionModel: model}, nil
}

func (s *catalogService) ListModels(ctx context.Context, filter *types.QueryFilter) (*dto.ListSubscriptionModelsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	models, err := s.CatalogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionModelResponse, 0, len(models))
	for _, model := range models {
		items = append(items, &dto.SubscriptionModelResponse{SubscriptionModel: model})
	}
	return &dto.ListSubscriptionModelsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(len(items), filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *catalogService) DeleteModel(ctx context.Context, id string) error {
	if err := s.CatalogRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Delete(ctx, cacheKeyModelPrefix+id)
	s.Logger.Infow("deleted subscription model", "model_id", id)
	return nil
}

func (s *catalogService) AddTier(ctx context.Context, modelID string, req *dto.AddTierRequest) (*dto.TierResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	model, err := s.CatalogRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	tier, err := model.AddTier(ctx, req.Name, req.PriceMonthly, req.PriceYearly, req.FeatureIDs, req.UsageLimits)
	if err != nil {
		return nil, err
	}

	if err := s.CatalogRepo.Update(ctx, model); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cacheKeyModelPrefix+modelID)
	s.Logger.Infow("added tier",
		"model_id", modelID,
		"tier_id", tier.ID,
		"price_monthly", tier.PriceMonthly)
	return &dto.TierResponse{Tier: tier}, nil
}

func (s *catalogService) AddFeature(ctx context.Context, modelID string, req *dto.AddFeatureRequest) (*dto.FeatureResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	model, err := s.CatalogRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	feature, err := model.AddFeature(ctx, req.Name, req.Type, req.ValueProposition)
	if err != nil {
		return nil, err
	}

	if err := s.CatalogRepo.Update(ctx, model); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cacheKeyModelPrefix+modelID)
	return &dto.FeatureResponse{Feature: feature}, nil
}

func (s *catalogService) AssignFeatureToTier(ctx context.Context, modelID string, req *dto.AssignFeatureRequest) (bool, error) {
	if err := req.Validate(ctx); err != nil {
		return false, err
	}

	model, err := s.CatalogRepo.Get(ctx, modelID)
	if err != nil {
		return false, err
	}

	assigned, err := model.AssignFeatureToTier(req.FeatureID, req.TierID)
	if err != nil {
		return false, err
	}
	if !assigned {
		return false, nil
	}

	if err := s.CatalogRepo.Update(ctx, model); err != nil {
		return false, err
	}
	s.Cache.Delete(ctx, cacheKeyModelPrefix+modelID)
	return true, nil
}

func (s *catalogService) UpdateTierPrice(ctx context.Context, modelID string, tierID string, req *dto.UpdateTierPriceRequest) (*dto.TierResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	model, err := s.CatalogRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	if err := model.UpdateTierPrice(tierID, req.PriceMonthly, req.PriceYearly); err != nil {
		return nil, err
	}

	if err := s.CatalogRepo.Update(ctx, model); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cacheKeyModelPrefix+modelID)
	tier, err := model.GetTier(tierID)
	if err != nil {
		return nil, err
	}
	s.Logger.Infow("updated tier price",
		"model_id", modelID,
		"tier_id", tierID,
		"price_monthly", tier.PriceMonthly,
		"price_yearly", tier.PriceYearly)
	return &dto.TierResponse{Tier: tier}, nil
}

func (s *catalogService) GetTierFeatures(ctx context.Context, modelID string, tierID string) (*dto.TierFeaturesResponse, error) {
	model, err := s.CatalogRepo.Get(ctx, modelID)
	if err != nil {
		return nil, err
	}

	features, err := model.GetTierFeatures(tierID)
	if err != nil {
		return nil, err
	}
	return &dto.TierFeaturesResponse{TierID: tierID, Features: features}, nil
}
