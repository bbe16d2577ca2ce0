package service

import (
	"context"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/projection"
)

// ProjectionService runs revenue and user-growth projections.
type ProjectionService interface {
	ProjectUsers(ctx context.Context, req *dto.ProjectUsersRequest) (*dto.ProjectUsersResponse, error)
	ProjectRevenue(ctx context.Context, req *dto.ProjectRevenueRequest) (*dto.ProjectRevenueResponse, error)
	CalculateLifetimeValue(ctx context.Context, req *dto.LifetimeValueRequest) (*dto.LifetimeValueResponse, error)
	CalculatePaybackPeriod(ctx context.Context, req *dto.PaybackPeriodRequest) (*dto.PaybackPeriodResponse, error)
	CalculateRevenueBreakdown(ctx context.Context, req *dto.RevenueBreakdownRequest) (*dto.RevenueBreakdownResponse, error)
}

type projectionService struct {
	ServiceParams
}

func NewProjectionService(params ServiceParams) ProjectionService {
	return &projectionService{ServiceParams: params}
}

func (s *projectionService) ProjectUsers(ctx context.Context, req *dto.ProjectUsersRequest) (*dto.ProjectUsersResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	projector, err := projection.NewProjector(req.Config.ToConfig())
	if err != nil {
		return nil, err
	}

	months, err := projector.ProjectUsers(req.Months, req.GrowthRate)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectUsersResponse{Months: months}, nil
}

func (s *projectionService) ProjectRevenue(ctx context.Context, req *dto.ProjectRevenueRequest) (*dto.ProjectRevenueResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	projector, err := projection.NewProjector(req.Config.ToConfig())
	if err != nil {
		return nil, err
	}

	months, err := projector.ProjectRevenue(req.Months, req.GrowthRate, req.TierPrices)
	if err != nil {
		return nil, err
	}

	if len(months) > 0 {
		last := months[len(months)-1]
		s.Logger.Debugw("projected revenue",
			"months", req.Months,
			"cumulative_revenue", last.CumulativeRevenue)
	}
	return &dto.ProjectRevenueResponse{Months: months}, nil
}

func (s *projectionService) CalculateLifetimeValue(ctx context.Context, req *dto.LifetimeValueRequest) (*dto.LifetimeValueResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	projector, err := projection.NewProjector(req.Config.ToConfig())
	if err != nil {
		return nil, err
	}

	ltv, err := projector.CalculateLifetimeValue(req.ARPU, req.ChurnRate)
	if err != nil {
		return nil, err
	}
	return &dto.LifetimeValueResponse{LifetimeValue: ltv}, nil
}

func (s *projectionService) CalculatePaybackPeriod(ctx context.Context, req *dto.PaybackPeriodRequest) (*dto.PaybackPeriodResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	projector, err := projection.NewProjector(projection.Config{})
	if err != nil {
		return nil, err
	}

	months, err := projector.CalculatePaybackPeriod(req.CAC, req.ARPU, req.GrossMargin)
	if err != nil {
		return nil, err
	}
	return &dto.PaybackPeriodResponse{Months: months}, nil
}

func (s *projectionService) CalculateRevenueBreakdown(ctx context.Context, req *dto.RevenueBreakdownRequest) (*dto.RevenueBreakdownResponse, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	breakdown, err := projection.CalculateRevenueBreakdown(req.TierPrices, req.UserCounts)
	if err != nil {
		return nil, err
	}
	return &dto.RevenueBreakdownResponse{RevenueBreakdown: breakdown}, nil
}
