package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/pricing"
)

// PricingService exposes the pricing calculator. Calculations are
// deterministic and fail fast; nothing here is retried.
type PricingService interface {
	CalculatePrice(ctx context.Context, req *dto.CalculatePriceRequest) (*dto.CalculatePriceResponse, error)
	CalculateOptimalPrice(ctx context.Context, req *dto.OptimalPriceRequest) (*dto.OptimalPriceResponse, error)
	AnalyzePriceSensitivity(ctx context.Context, req *dto.SensitivityAnalysisRequest) (*dto.SensitivityAnalysisResponse, error)
}

type pricingService struct {
	ServiceParams
	calculator *pricing.Calculator
}

func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{
		ServiceParams: params,
		calculator:    pricing.NewCalculator(pricing.DefaultConfig()),
	}
}

func (s *pricingService) CalculatePrice(ctx context.Context, req *dto.CalculatePriceRequest) (*dto.CalculatePriceResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	multiplier := req.TierMultiplier
	if multiplier.IsZero() {
		multiplier = decimal.NewFromInt(1)
	}
	adjustment := req.MarketAdjustment
	if adjustment.IsZero() {
		adjustment = decimal.NewFromInt(1)
	}

	price, err := s.calculator.CalculatePrice(req.BaseValue, multiplier, adjustment)
	if err != nil {
		return nil, err
	}
	return &dto.CalculatePriceResponse{Price: price}, nil
}

func (s *pricingService) CalculateOptimalPrice(ctx context.Context, req *dto.OptimalPriceRequest) (*dto.OptimalPriceResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	result, err := s.calculator.CalculateOptimalPrice(req.TierName, req.CostPerUser, req.ValuePerception, req.CompetitorPrice, req.PriceSensitivity)
	if err != nil {
		return nil, err
	}

	s.Logger.Debugw("calculated optimal price",
		"tier_name", req.TierName,
		"optimal_price", result.Price)
	return &dto.OptimalPriceResponse{OptimalPriceResult: result}, nil
}

func (s *pricingService) AnalyzePriceSensitivity(ctx context.Context, req *dto.SensitivityAnalysisRequest) (*dto.SensitivityAnalysisResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	elasticity := req.PriceElasticity
	if elasticity == 0 {
		elasticity = 1.0
	}

	analysis, err := s.calculator.AnalyzePriceSensitivity(req.BasePrice, req.MarketSize, elasticity)
	if err != nil {
		return nil, err
	}
	return &dto.SensitivityAnalysisResponse{SensitivityAnalysis: analysis}, nil
}
