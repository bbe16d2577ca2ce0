package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/domain/pricing"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/validator"
)

type CalculatePriceRequest struct {
	BaseValue        decimal.Decimal `json:"base_value" validate:"required"`
	TierMultiplier   decimal.Decimal `json:"tier_multiplier,omitempty"`
	MarketAdjustment decimal.Decimal `json:"market_adjustment,omitempty"`
}

func (r *CalculatePriceRequest) Validate(ctx context.Context) error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.BaseValue.IsNegative() {
		return ierr.NewError("base value cannot be negative").
			WithHint("Base value must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type CalculatePriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

type OptimalPriceRequest struct {
	TierName         string          `json:"tier_name" validate:"required"`
	CostPerUser      decimal.Decimal `json:"cost_per_user"`
	ValuePerception  decimal.Decimal `json:"value_perception"`
	CompetitorPrice  decimal.Decimal `json:"competitor_price"`
	PriceSensitivity decimal.Decimal `json:"price_sensitivity"`
}

func (r *OptimalPriceRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type OptimalPriceResponse struct {
	*pricing.OptimalPriceResult
}

type SensitivityAnalysisRequest struct {
	BasePrice       decimal.Decimal `json:"base_price" validate:"required"`
	MarketSize      int64           `json:"market_size" validate:"required,gt=0"`
	PriceElasticity float64         `json:"price_elasticity,omitempty"`
}

func (r *SensitivityAnalysisRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type SensitivityAnalysisResponse struct {
	*pricing.SensitivityAnalysis
}
