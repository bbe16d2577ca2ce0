package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/domain/catalog"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
	"github.com/tierforge/tierforge/internal/validator"
)

type CreateSubscriptionModelRequest struct {
	Name string                      `json:"name" validate:"required"`
	Type types.SubscriptionModelType `json:"type" validate:"required"`
	// FreeTierName names the auto-created free tier for freemium models.
	FreeTierName string `json:"free_tier_name,omitempty"`
}

func (r *CreateSubscriptionModelRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Type.Validate()
}

type AddTierRequest struct {
	Name         string           `json:"name" validate:"required"`
	PriceMonthly decimal.Decimal  `json:"price_monthly"`
	PriceYearly  *decimal.Decimal `json:"price_yearly,omitempty"`
	FeatureIDs   []string         `json:"feature_ids,omitempty"`
	UsageLimits  map[string]int64 `json:"usage_limits,omitempty"`
}

func (r *AddTierRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PriceMonthly.IsNegative() {
		return ierr.NewError("monthly price cannot be negative").
			WithHint("Tier prices must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type AddFeatureRequest struct {
	Name             string            `json:"name" validate:"required"`
	Type             types.FeatureType `json:"type" validate:"required"`
	ValueProposition string            `json:"value_proposition,omitempty"`
}

func (r *AddFeatureRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.Type.Validate()
}

type AssignFeatureRequest struct {
	FeatureID string `json:"feature_id" validate:"required"`
	TierID    string `json:"tier_id" validate:"required"`
}

func (r *AssignFeatureRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type UpdateTierPriceRequest struct {
	PriceMonthly *decimal.Decimal `json:"price_monthly,omitempty"`
	PriceYearly  *decimal.Decimal `json:"price_yearly,omitempty"`
}

func (r *UpdateTierPriceRequest) Validate(ctx context.Context) error {
	if r.PriceMonthly == nil && r.PriceYearly == nil {
		return ierr.NewError("at least one of price_monthly or price_yearly is required").
			WithHint("Nothing to update").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SubscriptionModelResponse struct {
	*catalog.SubscriptionModel
}

type TierResponse struct {
	*catalog.Tier
}

type FeatureResponse struct {
	*catalog.Feature
}

type TierFeaturesResponse struct {
	TierID   string             `json:"tier_id"`
	Features []*catalog.Feature `json:"features"`
}

type ListSubscriptionModelsResponse struct {
	Items      []*SubscriptionModelResponse `json:"items"`
	Pagination types.PaginationResponse     `json:"pagination"`
}
