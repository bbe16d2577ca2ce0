package types

import (
	"github.com/samber/lo"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// SubscriptionModelType discriminates the concrete catalog model stored on
// disk. Load reconstructs the right behavior from this tag.
type SubscriptionModelType string

const (
	SubscriptionModelTypeStandard SubscriptionModelType = "standard"
	SubscriptionModelTypeFreemium SubscriptionModelType = "freemium"
)

func (t SubscriptionModelType) Validate() error {
	if t != SubscriptionModelTypeStandard && t != SubscriptionModelTypeFreemium {
		return ierr.NewErrorf("invalid subscription model type: %s", t).
			WithHint("Model type must be standard or freemium").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FeatureType classifies how a feature gates product behavior.
type FeatureType string

const (
	FeatureTypeBoolean FeatureType = "boolean"
	FeatureTypeLimit   FeatureType = "limit"
	FeatureTypeMetered FeatureType = "metered"
)

func (t FeatureType) Validate() error {
	allowed := []FeatureType{FeatureTypeBoolean, FeatureTypeLimit, FeatureTypeMetered}
	if !lo.Contains(allowed, t) {
		return ierr.NewErrorf("invalid feature type: %s", t).
			WithHint("Feature type must be boolean, limit or metered").
			WithReportableDetails(map[string]interface{}{"type": t}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PricingStrategy selects the candidate-blend weights used by the optimal
// price computation.
type PricingStrategy string

const (
	PricingStrategyValueBased      PricingStrategy = "value_based"
	PricingStrategyCompetitorBased PricingStrategy = "competitor_based"
	PricingStrategyCostPlus        PricingStrategy = "cost_plus"
	PricingStrategyBalanced        PricingStrategy = "balanced"
)
