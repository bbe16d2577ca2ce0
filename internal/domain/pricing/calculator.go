// Package pricing implements the deterministic pricing computations:
// psychological price points, optimal-price blending and price
// sensitivity analysis. All functions are pure; the calculator carries
// only configuration.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

var (
	pointNinetyNine = decimal.RequireFromString("0.99")
	one             = decimal.NewFromInt(1)
)

// blendWeights are the strategy-dependent weights applied to the
// cost-plus, value-based and competitor-based candidates, in that order.
var blendWeights = map[types.PricingStrategy][3]decimal.Decimal{
	types.PricingStrategyValueBased: {
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("0.6"),
		decimal.RequireFromString("0.2"),
	},
	types.PricingStrategyCompetitorBased: {
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("0.6"),
	},
	types.PricingStrategyCostPlus: {
		decimal.RequireFromString("0.6"),
		decimal.RequireFromString("0.2"),
		decimal.RequireFromString("0.2"),
	},
	types.PricingStrategyBalanced: {
		decimal.RequireFromString("0.34"),
		decimal.RequireFromString("0.33"),
		decimal.RequireFromString("0.33"),
	},
}

// sensitivityMultipliers are the price points evaluated by the
// sensitivity analysis, as fractions of the base price.
var sensitivityMultipliers = []decimal.Decimal{
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("0.75"),
	decimal.RequireFromString("1.0"),
	decimal.RequireFromString("1.25"),
	decimal.RequireFromString("1.5"),
}

// Config is the calculator's value-object configuration.
type Config struct {
	// ProfitMargin is the target margin used by the cost-plus candidate.
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	// Strategy selects the candidate-blend weights.
	Strategy types.PricingStrategy `json:"strategy"`
}

// DefaultConfig returns the default calculator configuration: a 30%
// target margin with balanced blending.
func DefaultConfig() Config {
	return Config{
		ProfitMargin: decimal.RequireFromString("0.30"),
		Strategy:     types.PricingStrategyBalanced,
	}
}

// Calculator computes prices from a fixed configuration.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator. Zero-value config fields fall back
// to the defaults.
func NewCalculator(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.ProfitMargin.IsZero() {
		cfg.ProfitMargin = def.ProfitMargin
	}
	if cfg.Strategy == "" {
		cfg.Strategy = def.Strategy
	}
	return &Calculator{cfg: cfg}
}

// endInNinetyNine applies the psychological-pricing rule: the returned
// price always ends in .99.
func endInNinetyNine(price decimal.Decimal) decimal.Decimal {
	return price.Floor().Add(pointNinetyNine)
}

// CalculatePrice computes floor(base * tierMultiplier * marketAdjustment)
// + 0.99.
func (c *Calculator) CalculatePrice(baseValue, tierMultiplier, marketAdjustment decimal.Decimal) (decimal.Decimal, error) {
	if baseValue.IsNegative() {
		return decimal.Zero, ierr.NewError("base value cannot be negative").
			WithHint("Base value must be zero or positive").
			WithReportableDetails(map[string]interface{}{"base_value": baseValue.String()}).
			Mark(ierr.ErrValidation)
	}
	if tierMultiplier.IsZero() {
		tierMultiplier = one
	}
	if marketAdjustment.IsZero() {
		marketAdjustment = one
	}
	if tierMultiplier.IsNegative() || marketAdjustment.IsNegative() {
		return decimal.Zero, ierr.NewError("multipliers cannot be negative").
			WithHint("Tier multiplier and market adjustment must be positive").
			Mark(ierr.ErrValidation)
	}
	return endInNinetyNine(baseValue.Mul(tierMultiplier).Mul(marketAdjustment)), nil
}

// OptimalPriceResult carries the blended price and its candidates.
type OptimalPriceResult struct {
	TierName        string                `json:"tier_name"`
	Price           decimal.Decimal       `json:"price"`
	CostPlus        decimal.Decimal       `json:"cost_plus"`
	ValueBased      decimal.Decimal       `json:"value_based"`
	CompetitorBased decimal.Decimal       `json:"competitor_based"`
	Strategy        types.PricingStrategy `json:"strategy"`
}

// CalculateOptimalPrice blends three candidate prices:
//
//	cost_plus       = cost_per_user / (1 - profit_margin)
//	value_based     = competitor_price * value_perception
//	competitor_based = competitor_price * (0.8 + 0.4*(1 - price_sensitivity))
//
// using the configured strategy's weights, then rounds to end in .99.
func (c *Calculator) CalculateOptimalPrice(tierName string, costPerUser, valuePerception, competitorPrice, priceSensitivity decimal.Decimal) (*OptimalPriceResult, error) {
	if costPerUser.IsNegative() || competitorPrice.IsNegative() {
		return nil, ierr.NewError("costs and competitor price cannot be negative").
			WithHint("Cost per user and competitor price must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if c.cfg.ProfitMargin.GreaterThanOrEqual(one) {
		return nil, ierr.NewError("profit margin must be below 1").
			WithReportableDetails(map[string]interface{}{"profit_margin": c.cfg.ProfitMargin.String()}).
			Mark(ierr.ErrValidation)
	}
	if priceSensitivity.IsNegative() || priceSensitivity.GreaterThan(one) {
		return nil, ierr.NewError("price sensitivity must be between 0 and 1").
			WithReportableDetails(map[string]interface{}{"price_sensitivity": priceSensitivity.String()}).
			Mark(ierr.ErrValidation)
	}

	costPlus := costPerUser.Div(one.Sub(c.cfg.ProfitMargin))
	valueBased := competitorPrice.Mul(valuePerception)
	competitorBased := competitorPrice.Mul(
		decimal.RequireFromString("0.8").Add(
			decimal.RequireFromString("0.4").Mul(one.Sub(priceSensitivity))))

	weights, ok := blendWeights[c.cfg.Strategy]
	if !ok {
		weights = blendWeights[types.PricingStrategyBalanced]
	}
	blended := costPlus.Mul(weights[0]).
		Add(valueBased.Mul(weights[1])).
		Add(competitorBased.Mul(weights[2]))

	return &OptimalPriceResult{
		TierName:        tierName,
		Price:           endInNinetyNine(blended),
		CostPlus:        costPlus,
		ValueBased:      valueBased,
		CompetitorBased: competitorBased,
		Strategy:        c.cfg.Strategy,
	}, nil
}

// PricePoint is one evaluated point of a sensitivity analysis.
type PricePoint struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Price      decimal.Decimal `json:"price"`
	Demand     decimal.Decimal `json:"demand"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SensitivityAnalysis is the result of AnalyzePriceSensitivity.
type SensitivityAnalysis struct {
	BasePrice  decimal.Decimal `json:"base_price"`
	MarketSize int64           `json:"market_size"`
	Elasticity float64         `json:"price_elasticity"`
	Points     []PricePoint    `json:"points"`
	Optimal    PricePoint      `json:"optimal"`
}

// AnalyzePriceSensitivity evaluates five price points around the base
// price. Demand at each point is market_size * (1/multiplier)^elasticity,
// so unit elasticity keeps revenue constant across points, elasticity
// above one rewards discounting, and below one rewards premium pricing.
func (c *Calculator) AnalyzePriceSensitivity(basePrice decimal.Decimal, marketSize int64, priceElasticity float64) (*SensitivityAnalysis, error) {
	if !basePrice.IsPositive() {
		return nil, ierr.NewError("base price must be positive").
			WithReportableDetails(map[string]interface{}{"base_price": basePrice.String()}).
			Mark(ierr.ErrValidation)
	}
	if marketSize < 0 {
		return nil, ierr.NewError("market size cannot be negative").
			WithReportableDetails(map[string]interface{}{"market_size": marketSize}).
			Mark(ierr.ErrValidation)
	}
	if priceElasticity < 0 {
		return nil, ierr.NewError("price elasticity cannot be negative").
			WithReportableDetails(map[string]interface{}{"price_elasticity": priceElasticity}).
			Mark(ierr.ErrValidation)
	}

	analysis := &SensitivityAnalysis{
		BasePrice:  basePrice,
		MarketSize: marketSize,
		Elasticity: priceElasticity,
		Points:     make([]PricePoint, 0, len(sensitivityMultipliers)),
	}

	market := decimal.NewFromInt(marketSize)
	for _, mult := range sensitivityMultipliers {
		price := basePrice.Mul(mult)
		multFloat, _ := mult.Float64()
		demandFactor := math.Pow(1/multFloat, priceElasticity)
		demand := market.Mul(decimal.NewFromFloat(demandFactor))
		point := PricePoint{
			Multiplier: mult,
			Price:      price,
			Demand:     demand,
			Revenue:    price.Mul(demand),
		}
		analysis.Points = append(analysis.Points, point)
		if point.Revenue.GreaterThan(analysis.Optimal.Revenue) {
			analysis.Optimal = point
		}
	}

	return analysis, nil
}
