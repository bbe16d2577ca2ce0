package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

func TestNewFreemiumModel(t *testing.T) {
	m := NewFreemiumModel(context.Background(), "SaaS Catalog", "")

	assert.Equal(t, types.SubscriptionModelTypeFreemium, m.Type)
	require.Len(t, m.Tiers, 1)

	free, err := m.FreeTier()
	require.NoError(t, err)
	assert.Equal(t, "Free", free.Name)
	assert.True(t, free.IsFree())
	assert.True(t, free.PriceYearly.IsZero())
	assert.Equal(t, free.ID, m.FreeTierID)

	require.NoError(t, m.Validate())
}

func TestFreeTier_StandardModel(t *testing.T) {
	m := NewSubscriptionModel(context.Background(), "Standard Catalog")
	_, err := m.FreeTier()
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}

func TestAddTier(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")

	// Yearly defaults to ten times monthly.
	pro, err := m.AddTier(ctx, "Pro", decimal.NewFromInt(29), nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, pro.PriceYearly.Equal(decimal.NewFromInt(290)))

	// Explicit yearly wins.
	yearly := decimal.NewFromInt(250)
	business, err := m.AddTier(ctx, "Business", decimal.NewFromInt(29), &yearly, nil, map[string]int64{"seats": 50})
	require.NoError(t, err)
	assert.True(t, business.PriceYearly.Equal(yearly))
	assert.Equal(t, int64(50), business.UsageLimits["seats"])

	assert.Len(t, m.Tiers, 2)
}

func TestAddPaidTier(t *testing.T) {
	ctx := context.Background()
	m := NewFreemiumModel(ctx, "Catalog", "Free")

	pro, err := m.AddPaidTier(ctx, "Pro", decimal.NewFromInt(19), nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, pro.PriceYearly.Equal(decimal.NewFromInt(190)))
	assert.Len(t, m.Tiers, 2)

	// The free slot is taken at construction; paid tiers must cost something.
	_, err = m.AddPaidTier(ctx, "Shadow Free", decimal.Zero, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	standard := NewSubscriptionModel(ctx, "Catalog")
	_, err = standard.AddPaidTier(ctx, "Pro", decimal.NewFromInt(19), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}

func TestAddTier_Validation(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")

	_, err := m.AddTier(ctx, "", decimal.NewFromInt(10), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	_, err = m.AddTier(ctx, "Pro", decimal.NewFromInt(-1), nil, nil, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	// Referenced features must exist.
	_, err = m.AddTier(ctx, "Pro", decimal.NewFromInt(10), nil, []string{"feat_missing"}, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestAddFeature(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")

	feature, err := m.AddFeature(ctx, "API Access", types.FeatureTypeBoolean, "programmatic control")
	require.NoError(t, err)
	assert.NotEmpty(t, feature.ID)
	assert.Equal(t, types.FeatureTypeBoolean, feature.Type)

	_, err = m.AddFeature(ctx, "", types.FeatureTypeBoolean, "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	_, err = m.AddFeature(ctx, "Bogus", types.FeatureType("bogus"), "")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestAssignFeatureToTier_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")

	feature, err := m.AddFeature(ctx, "SSO", types.FeatureTypeLimit, "")
	require.NoError(t, err)
	tier, err := m.AddTier(ctx, "Enterprise", decimal.NewFromInt(99), nil, nil, nil)
	require.NoError(t, err)

	added, err := m.AssignFeatureToTier(feature.ID, tier.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, tier.HasFeature(feature.ID))

	// Second assignment is a no-op.
	added, err = m.AssignFeatureToTier(feature.ID, tier.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, tier.FeatureIDs, 1)

	_, err = m.AssignFeatureToTier("feat_missing", tier.ID)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))

	_, err = m.AssignFeatureToTier(feature.ID, "tier_missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestUpdateTierPrice(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")
	tier, err := m.AddTier(ctx, "Pro", decimal.NewFromInt(20), nil, nil, nil)
	require.NoError(t, err)

	// Monthly update without yearly rederives the yearly price.
	monthly := decimal.NewFromInt(30)
	require.NoError(t, m.UpdateTierPrice(tier.ID, &monthly, nil))
	assert.True(t, tier.PriceMonthly.Equal(decimal.NewFromInt(30)))
	assert.True(t, tier.PriceYearly.Equal(decimal.NewFromInt(300)))

	// Explicit yearly update leaves monthly alone.
	yearly := decimal.NewFromInt(280)
	require.NoError(t, m.UpdateTierPrice(tier.ID, nil, &yearly))
	assert.True(t, tier.PriceMonthly.Equal(decimal.NewFromInt(30)))
	assert.True(t, tier.PriceYearly.Equal(yearly))

	negative := decimal.NewFromInt(-5)
	err = m.UpdateTierPrice(tier.ID, &negative, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestUpdateTierPrice_FreeTierLocked(t *testing.T) {
	ctx := context.Background()
	m := NewFreemiumModel(ctx, "Catalog", "Starter")

	monthly := decimal.NewFromInt(5)
	err := m.UpdateTierPrice(m.FreeTierID, &monthly, nil)
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))

	// Re-asserting zero is allowed.
	zero := decimal.Zero
	require.NoError(t, m.UpdateTierPrice(m.FreeTierID, &zero, nil))
	free, err := m.FreeTier()
	require.NoError(t, err)
	assert.True(t, free.IsFree())
}

func TestGetTierFeatures(t *testing.T) {
	ctx := context.Background()
	m := NewSubscriptionModel(ctx, "Catalog")

	first, err := m.AddFeature(ctx, "Dashboards", types.FeatureTypeBoolean, "")
	require.NoError(t, err)
	second, err := m.AddFeature(ctx, "Audit Log", types.FeatureTypeLimit, "")
	require.NoError(t, err)
	tier, err := m.AddTier(ctx, "Pro", decimal.NewFromInt(20), nil, []string{first.ID, second.ID}, nil)
	require.NoError(t, err)

	features, err := m.GetTierFeatures(tier.ID)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, first.ID, features[0].ID)
	assert.Equal(t, second.ID, features[1].ID)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	m := NewFreemiumModel(ctx, "Catalog", "")
	require.NoError(t, m.Validate())

	// Repricing the free tier behind the model's back is caught.
	free, err := m.FreeTier()
	require.NoError(t, err)
	free.PriceMonthly = decimal.NewFromInt(5)
	err = m.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	// Dangling feature references are caught.
	free.PriceMonthly = decimal.Zero
	free.FeatureIDs = []string{"feat_missing"}
	err = m.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
