package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/testutil"
	"github.com/tierforge/tierforge/internal/types"
)

type CatalogServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CatalogService
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCatalogService(ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Cache:             s.GetCache(),
		CatalogRepo:       s.GetStores().Catalog,
		TransactionRepo:   s.GetStores().Transaction,
		PaymentMethodRepo: s.GetStores().PaymentMethod,
		GatewayRegistry:   s.GetGatewayRegistry(),
		RetryPolicy:       testutil.FastRetryPolicy(),
	})
}

func (s *CatalogServiceSuite) createModel(modelType types.SubscriptionModelType) *dto.SubscriptionModelResponse {
	resp, err := s.service.CreateModel(s.GetContext(), &dto.CreateSubscriptionModelRequest{
		Name: "Test Catalog",
		Type: modelType,
	})
	s.Require().NoError(err)
	return resp
}

func (s *CatalogServiceSuite) TestCreateModel_Standard() {
	resp := s.createModel(types.SubscriptionModelTypeStandard)

	s.NotEmpty(resp.ID)
	s.Equal(types.SubscriptionModelTypeStandard, resp.Type)
	s.Empty(resp.Tiers)
}

func (s *CatalogServiceSuite) TestCreateModel_Freemium() {
	resp, err := s.service.CreateModel(s.GetContext(), &dto.CreateSubscriptionModelRequest{
		Name:         "Freemium Catalog",
		Type:         types.SubscriptionModelTypeFreemium,
		FreeTierName: "Starter",
	})
	s.Require().NoError(err)

	s.Require().Len(resp.Tiers, 1)
	s.Equal("Starter", resp.Tiers[0].Name)
	s.True(resp.Tiers[0].IsFree())
	s.Equal(resp.Tiers[0].ID, resp.FreeTierID)
}

func (s *CatalogServiceSuite) TestCreateModel_Validation() {
	_, err := s.service.CreateModel(s.GetContext(), &dto.CreateSubscriptionModelRequest{
		Name: "Bad",
		Type: types.SubscriptionModelType("bogus"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestGetModel_CachesAndInvalidates() {
	created := s.createModel(types.SubscriptionModelTypeStandard)

	// First read populates the cache, second read hits it.
	first, err := s.service.GetModel(s.GetContext(), created.ID)
	s.Require().NoError(err)
	second, err := s.service.GetModel(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	// Mutations invalidate the cached model.
	_, err = s.service.AddTier(s.GetContext(), created.ID, &dto.AddTierRequest{
		Name:         "Pro",
		PriceMonthly: decimal.NewFromInt(29),
	})
	s.Require().NoError(err)

	reloaded, err := s.service.GetModel(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Len(reloaded.Tiers, 1)
}

func (s *CatalogServiceSuite) TestGetModel_NotFound() {
	_, err := s.service.GetModel(s.GetContext(), "model_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CatalogServiceSuite) TestListModels() {
	s.createModel(types.SubscriptionModelTypeStandard)
	s.createModel(types.SubscriptionModelTypeFreemium)

	resp, err := s.service.ListModels(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *CatalogServiceSuite) TestDeleteModel() {
	created := s.createModel(types.SubscriptionModelTypeStandard)

	s.Require().NoError(s.service.DeleteModel(s.GetContext(), created.ID))

	_, err := s.service.GetModel(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CatalogServiceSuite) TestAddTier_YearlyDefault() {
	created := s.createModel(types.SubscriptionModelTypeStandard)

	tier, err := s.service.AddTier(s.GetContext(), created.ID, &dto.AddTierRequest{
		Name:         "Pro",
		PriceMonthly: decimal.NewFromInt(29),
		UsageLimits:  map[string]int64{"projects": 25},
	})
	s.Require().NoError(err)

	s.True(tier.PriceYearly.Equal(decimal.NewFromInt(290)))
	s.Equal(int64(25), tier.UsageLimits["projects"])
}

func (s *CatalogServiceSuite) TestAssignFeatureToTier_Idempotent() {
	created := s.createModel(types.SubscriptionModelTypeStandard)

	feature, err := s.service.AddFeature(s.GetContext(), created.ID, &dto.AddFeatureRequest{
		Name: "SSO",
		Type: types.FeatureTypeBoolean,
	})
	s.Require().NoError(err)

	tier, err := s.service.AddTier(s.GetContext(), created.ID, &dto.AddTierRequest{
		Name:         "Enterprise",
		PriceMonthly: decimal.NewFromInt(99),
	})
	s.Require().NoError(err)

	assigned, err := s.service.AssignFeatureToTier(s.GetContext(), created.ID, &dto.AssignFeatureRequest{
		FeatureID: feature.ID,
		TierID:    tier.ID,
	})
	s.Require().NoError(err)
	s.True(assigned)

	assigned, err = s.service.AssignFeatureToTier(s.GetContext(), created.ID, &dto.AssignFeatureRequest{
		FeatureID: feature.ID,
		TierID:    tier.ID,
	})
	s.Require().NoError(err)
	s.False(assigned)

	features, err := s.service.GetTierFeatures(s.GetContext(), created.ID, tier.ID)
	s.Require().NoError(err)
	s.Require().Len(features.Features, 1)
	s.Equal(feature.ID, features.Features[0].ID)
}

func (s *CatalogServiceSuite) TestUpdateTierPrice() {
	created := s.createModel(types.SubscriptionModelTypeStandard)
	tier, err := s.service.AddTier(s.GetContext(), created.ID, &dto.AddTierRequest{
		Name:         "Pro",
		PriceMonthly: decimal.NewFromInt(20),
	})
	s.Require().NoError(err)

	monthly := decimal.NewFromInt(25)
	updated, err := s.service.UpdateTierPrice(s.GetContext(), created.ID, tier.ID, &dto.UpdateTierPriceRequest{
		PriceMonthly: &monthly,
	})
	s.Require().NoError(err)
	s.True(updated.PriceMonthly.Equal(decimal.NewFromInt(25)))
	s.True(updated.PriceYearly.Equal(decimal.NewFromInt(250)))

	// Empty request is rejected.
	_, err = s.service.UpdateTierPrice(s.GetContext(), created.ID, tier.ID, &dto.UpdateTierPriceRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CatalogServiceSuite) TestUpdateTierPrice_FreeTierLocked() {
	created := s.createModel(types.SubscriptionModelTypeFreemium)

	monthly := decimal.NewFromInt(5)
	_, err := s.service.UpdateTierPrice(s.GetContext(), created.ID, created.FreeTierID, &dto.UpdateTierPriceRequest{
		PriceMonthly: &monthly,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}
