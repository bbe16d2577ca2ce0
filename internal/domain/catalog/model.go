package catalog

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

// YearlyPriceMultiplier is the two-months-free convention: the yearly
// price defaults to ten times the monthly price.
var YearlyPriceMultiplier = decimal.NewFromInt(10)

// Feature is a product capability gated by tiers.
type Feature struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Type             types.FeatureType `json:"type"`
	ValueProposition string            `json:"value_proposition,omitempty"`
	Metadata         types.Metadata    `json:"metadata,omitempty"`
	types.BaseModel
}

// Tier is a named pricing level bundling a feature set and usage limits.
type Tier struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	PriceMonthly decimal.Decimal  `json:"price_monthly"`
	PriceYearly  decimal.Decimal  `json:"price_yearly"`
	FeatureIDs   []string         `json:"feature_ids,omitempty"`
	UsageLimits  map[string]int64 `json:"usage_limits,omitempty"`
	TargetUsers  string           `json:"target_users,omitempty"`
	types.BaseModel
}

// HasFeature reports whether the feature is assigned to the tier.
func (t *Tier) HasFeature(featureID string) bool {
	return lo.Contains(t.FeatureIDs, featureID)
}

// IsFree reports whether the tier is the zero-priced tier.
func (t *Tier) IsFree() bool {
	return t.PriceMonthly.IsZero()
}

// SubscriptionModel owns the ordered tiers and features of one product's
// catalog. The Type discriminator selects standard or freemium behavior;
// a freemium model always contains the designated free tier, tracked by id.
type SubscriptionModel struct {
	ID         string                      `json:"id"`
	Name       string                      `json:"name"`
	Type       types.SubscriptionModelType `json:"model_type"`
	Tiers      []*Tier                     `json:"tiers"`
	Features   []*Feature                  `json:"features"`
	FreeTierID string                      `json:"free_tier_id,omitempty"`
	types.BaseModel
}

// NewSubscriptionModel creates an empty standard catalog.
func NewSubscriptionModel(ctx context.Context, name string) *SubscriptionModel {
	return &SubscriptionModel{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_MODEL),
		Name:      name,
		Type:      types.SubscriptionModelTypeStandard,
		Tiers:     []*Tier{},
		Features:  []*Feature{},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// NewFreemiumModel creates a freemium catalog with its zero-priced free
// tier already present and designated.
func NewFreemiumModel(ctx context.Context, name string, freeTierName string) *SubscriptionModel {
	m := NewSubscriptionModel(ctx, name)
	m.Type = types.SubscriptionModelTypeFreemium

	if freeTierName == "" {
		freeTierName = "Free"
	}
	free := &Tier{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name:         freeTierName,
		PriceMonthly: decimal.Zero,
		PriceYearly:  decimal.Zero,
		FeatureIDs:   []string{},
		UsageLimits:  map[string]int64{},
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	m.Tiers = append(m.Tiers, free)
	m.FreeTierID = free.ID
	return m
}

// AddTier appends a tier to the catalog. A nil yearly price defaults to
// ten times the monthly price.
func (m *SubscriptionModel) AddTier(ctx context.Context, name string, priceMonthly decimal.Decimal, priceYearly *decimal.Decimal, featureIDs []string, usageLimits map[string]int64) (*Tier, error) {
	if name == "" {
		return nil, ierr.NewError("tier name is required").
			WithHint("Tier name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if priceMonthly.IsNegative() {
		return nil, ierr.NewError("tier price cannot be negative").
			WithHint("Monthly price must be zero or positive").
			WithReportableDetails(map[string]interface{}{"price_monthly": priceMonthly.String()}).
			Mark(ierr.ErrValidation)
	}

	yearly := priceMonthly.Mul(YearlyPriceMultiplier)
	if priceYearly != nil {
		if priceYearly.IsNegative() {
			return nil, ierr.NewError("tier price cannot be negative").
				WithHint("Yearly price must be zero or positive").
				WithReportableDetails(map[string]interface{}{"price_yearly": priceYearly.String()}).
				Mark(ierr.ErrValidation)
		}
		yearly = *priceYearly
	}

	for _, featureID := range featureIDs {
		if _, err := m.GetFeature(featureID); err != nil {
			return nil, err
		}
	}

	if usageLimits == nil {
		usageLimits = map[string]int64{}
	}

	tier := &Tier{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TIER),
		Name:         name,
		PriceMonthly: priceMonthly,
		PriceYearly:  yearly,
		FeatureIDs:   lo.Uniq(featureIDs),
		UsageLimits:  usageLimits,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	m.Tiers = append(m.Tiers, tier)
	m.UpdatedAt = tier.CreatedAt
	return tier, nil
}

// AddPaidTier appends a paid tier to a freemium catalog. The price must
// be positive; the free tier is created once, at model construction.
func (m *SubscriptionModel) AddPaidTier(ctx context.Context, name string, priceMonthly decimal.Decimal, priceYearly *decimal.Decimal, featureIDs []string, usageLimits map[string]int64) (*Tier, error) {
	if m.Type != types.SubscriptionModelTypeFreemium {
		return nil, ierr.NewError("paid tiers apply to freemium models").
			WithHint("Use AddTier on a standard model").
			WithReportableDetails(map[string]interface{}{"model_id": m.ID, "model_type": m.Type}).
			Mark(ierr.ErrInvalidOperation)
	}
	if !priceMonthly.IsPositive() {
		return nil, ierr.NewError("paid tier price must be positive").
			WithHint("A freemium model already has its free tier").
			WithReportableDetails(map[string]interface{}{"price_monthly": priceMonthly.String()}).
			Mark(ierr.ErrValidation)
	}
	return m.AddTier(ctx, name, priceMonthly, priceYearly, featureIDs, usageLimits)
}

// AddFeature appends a feature to the catalog.
func (m *SubscriptionModel) AddFeature(ctx context.Context, name string, featureType types.FeatureType, valueProposition string) (*Feature, error) {
	if name == "" {
		return nil, ierr.NewError("feature name is required").
			WithHint("Feature name cannot be empty").
			Mark(ierr.ErrValidation)
	}
	if err := featureType.Validate(); err != nil {
		return nil, err
	}

	feature := &Feature{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FEATURE),
		Name:             name,
		Type:             featureType,
		ValueProposition: valueProposition,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	m.Features = append(m.Features, feature)
	m.UpdatedAt = feature.CreatedAt
	return feature, nil
}

// AssignFeatureToTier links an existing feature to an existing tier.
// The operation is idempotent: assigning an already assigned feature
// returns false with no error.
func (m *SubscriptionModel) AssignFeatureToTier(featureID string, tierID string) (bool, error) {
	if _, err := m.GetFeature(featureID); err != nil {
		return false, err
	}
	tier, err := m.GetTier(tierID)
	if err != nil {
		return false, err
	}
	if tier.HasFeature(featureID) {
		return false, nil
	}
	tier.FeatureIDs = append(tier.FeatureIDs, featureID)
	return true, nil
}

// UpdateTierPrice updates the monthly and/or yearly price of a tier.
func (m *SubscriptionModel) UpdateTierPrice(tierID string, monthly *decimal.Decimal, yearly *decimal.Decimal) error {
	tier, err := m.GetTier(tierID)
	if err != nil {
		return err
	}
	if monthly != nil && monthly.IsNegative() {
		return ierr.NewError("tier price cannot be negative").
			WithHint("Monthly price must be zero or positive").
			WithReportableDetails(map[string]interface{}{"tier_id": tierID, "price_monthly": monthly.String()}).
			Mark(ierr.ErrValidation)
	}
	if yearly != nil && yearly.IsNegative() {
		return ierr.NewError("tier price cannot be negative").
			WithHint("Yearly price must be zero or positive").
			WithReportableDetails(map[string]interface{}{"tier_id": tierID, "price_yearly": yearly.String()}).
			Mark(ierr.ErrValidation)
	}
	if m.Type == types.SubscriptionModelTypeFreemium && tierID == m.FreeTierID {
		if (monthly != nil && !monthly.IsZero()) || (yearly != nil && !yearly.IsZero()) {
			return ierr.NewError("free tier price must stay zero").
				WithHint("The freemium free tier cannot be repriced").
				WithReportableDetails(map[string]interface{}{"tier_id": tierID}).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	if monthly != nil {
		tier.PriceMonthly = *monthly
		if yearly == nil {
			tier.PriceYearly = monthly.Mul(YearlyPriceMultiplier)
		}
	}
	if yearly != nil {
		tier.PriceYearly = *yearly
	}
	return nil
}

// GetTier returns the tier with the given id.
func (m *SubscriptionModel) GetTier(tierID string) (*Tier, error) {
	tier, found := lo.Find(m.Tiers, func(t *Tier) bool { return t.ID == tierID })
	if !found {
		return nil, ierr.NewError("tier not found").
			WithHint("Tier not found").
			WithReportableDetails(map[string]interface{}{"tier_id": tierID}).
			Mark(ierr.ErrNotFound)
	}
	return tier, nil
}

// GetFeature returns the feature with the given id.
func (m *SubscriptionModel) GetFeature(featureID string) (*Feature, error) {
	feature, found := lo.Find(m.Features, func(f *Feature) bool { return f.ID == featureID })
	if !found {
		return nil, ierr.NewError("feature not found").
			WithHint("Feature not found").
			WithReportableDetails(map[string]interface{}{"feature_id": featureID}).
			Mark(ierr.ErrNotFound)
	}
	return feature, nil
}

// GetTierFeatures returns the features assigned to a tier, in assignment
// order.
func (m *SubscriptionModel) GetTierFeatures(tierID string) ([]*Feature, error) {
	tier, err := m.GetTier(tierID)
	if err != nil {
		return nil, err
	}
	features := make([]*Feature, 0, len(tier.FeatureIDs))
	for _, featureID := range tier.FeatureIDs {
		feature, err := m.GetFeature(featureID)
		if err != nil {
			return nil, err
		}
		features = append(features, feature)
	}
	return features, nil
}

// FreeTier returns the designated free tier of a freemium model.
func (m *SubscriptionModel) FreeTier() (*Tier, error) {
	if m.Type != types.SubscriptionModelTypeFreemium {
		return nil, ierr.NewError("model has no free tier").
			WithHint("Only freemium models designate a free tier").
			WithReportableDetails(map[string]interface{}{"model_id": m.ID, "model_type": m.Type}).
			Mark(ierr.ErrInvalidOperation)
	}
	return m.GetTier(m.FreeTierID)
}

// Validate checks the catalog's structural invariants: non-negative
// prices, feature references resolving, and the freemium free tier being
// present and zero-priced.
func (m *SubscriptionModel) Validate() error {
	if err := m.Type.Validate(); err != nil {
		return err
	}
	for _, tier := range m.Tiers {
		if tier.PriceMonthly.IsNegative() || tier.PriceYearly.IsNegative() {
			return ierr.NewError("tier price cannot be negative").
				WithReportableDetails(map[string]interface{}{"tier_id": tier.ID}).
				Mark(ierr.ErrValidation)
		}
		for _, featureID := range tier.FeatureIDs {
			if _, err := m.GetFeature(featureID); err != nil {
				return ierr.NewError("tier references unknown feature").
					WithReportableDetails(map[string]interface{}{"tier_id": tier.ID, "feature_id": featureID}).
					Mark(ierr.ErrValidation)
			}
		}
	}
	if m.Type == types.SubscriptionModelTypeFreemium {
		free, err := m.GetTier(m.FreeTierID)
		if err != nil {
			return ierr.NewError("freemium model is missing its free tier").
				WithReportableDetails(map[string]interface{}{"model_id": m.ID, "free_tier_id": m.FreeTierID}).
				Mark(ierr.ErrValidation)
		}
		if !free.PriceMonthly.IsZero() {
			return ierr.NewError("free tier must be zero priced").
				WithReportableDetails(map[string]interface{}{"tier_id": free.ID, "price_monthly": free.PriceMonthly.String()}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
