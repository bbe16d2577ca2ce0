package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tierforge/tierforge/internal/domain/projection"
	"github.com/tierforge/tierforge/internal/validator"
)

// ProjectionConfigRequest mirrors projection.Config for API callers.
type ProjectionConfigRequest struct {
	InitialUsers       int64              `json:"initial_users" validate:"gte=0"`
	InitialPaidUsers   int64              `json:"initial_paid_users" validate:"gte=0"`
	MonthlyAcquisition int64              `json:"monthly_acquisition" validate:"gte=0"`
	ChurnRate          float64            `json:"churn_rate" validate:"gte=0,lt=1"`
	ConversionRate     float64            `json:"conversion_rate" validate:"gte=0,lt=1"`
	TierDistribution   map[string]float64 `json:"tier_distribution,omitempty"`
}

func (r *ProjectionConfigRequest) ToConfig() projection.Config {
	return projection.Config{
		InitialUsers:       r.InitialUsers,
		InitialPaidUsers:   r.InitialPaidUsers,
		MonthlyAcquisition: r.MonthlyAcquisition,
		ChurnRate:          r.ChurnRate,
		ConversionRate:     r.ConversionRate,
		TierDistribution:   r.TierDistribution,
	}
}

type ProjectUsersRequest struct {
	Config     ProjectionConfigRequest `json:"config"`
	Months     int                     `json:"months" validate:"required,gt=0"`
	GrowthRate float64                 `json:"growth_rate" validate:"gte=-1"`
}

func (r *ProjectUsersRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type ProjectUsersResponse struct {
	Months []projection.UserMonth `json:"months"`
}

type ProjectRevenueRequest struct {
	Config     ProjectionConfigRequest    `json:"config"`
	Months     int                        `json:"months" validate:"required,gt=0"`
	GrowthRate float64                    `json:"growth_rate" validate:"gte=-1"`
	TierPrices map[string]decimal.Decimal `json:"tier_prices" validate:"required"`
}

func (r *ProjectRevenueRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type ProjectRevenueResponse struct {
	Months []projection.RevenueMonth `json:"months"`
}

type LifetimeValueRequest struct {
	Config    ProjectionConfigRequest `json:"config"`
	ARPU      decimal.Decimal         `json:"arpu" validate:"required"`
	ChurnRate float64                 `json:"churn_rate,omitempty"`
}

func (r *LifetimeValueRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type LifetimeValueResponse struct {
	*projection.LifetimeValue
}

type PaybackPeriodRequest struct {
	CAC         decimal.Decimal `json:"cac" validate:"required"`
	ARPU        decimal.Decimal `json:"arpu" validate:"required"`
	GrossMargin decimal.Decimal `json:"gross_margin,omitempty"`
}

func (r *PaybackPeriodRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type PaybackPeriodResponse struct {
	Months decimal.Decimal `json:"months"`
}

type RevenueBreakdownRequest struct {
	TierPrices map[string]decimal.Decimal `json:"tier_prices" validate:"required"`
	UserCounts map[string]int64           `json:"user_counts" validate:"required"`
}

func (r *RevenueBreakdownRequest) Validate(ctx context.Context) error {
	return validator.ValidateRequest(r)
}

type RevenueBreakdownResponse struct {
	*projection.RevenueBreakdown
}
