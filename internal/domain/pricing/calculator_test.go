package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/types"
)

func TestCalculatePrice_EndsInNinetyNine(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name       string
		base       string
		multiplier string
		adjustment string
		expected   string
	}{
		{name: "Simple", base: "10", multiplier: "1", adjustment: "1", expected: "10.99"},
		{name: "Multiplied", base: "10", multiplier: "2.5", adjustment: "1", expected: "25.99"},
		{name: "Adjusted", base: "19.50", multiplier: "1", adjustment: "1.1", expected: "21.99"},
		{name: "FloorsBeforeAppending", base: "9.99", multiplier: "1", adjustment: "1", expected: "9.99"},
		{name: "ZeroBase", base: "0", multiplier: "1", adjustment: "1", expected: "0.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := calc.CalculatePrice(
				decimal.RequireFromString(tt.base),
				decimal.RequireFromString(tt.multiplier),
				decimal.RequireFromString(tt.adjustment),
			)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price.StringFixed(2))

			// price*100 mod 100 is always 99
			cents := price.Mul(decimal.NewFromInt(100)).Mod(decimal.NewFromInt(100))
			assert.True(t, cents.Equal(decimal.NewFromInt(99)), "price %s does not end in .99", price)
		})
	}
}

func TestCalculatePrice_DefaultsZeroMultipliers(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	price, err := calc.CalculatePrice(decimal.NewFromInt(10), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "10.99", price.StringFixed(2))
}

func TestCalculatePrice_RejectsNegativeBase(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	_, err := calc.CalculatePrice(decimal.NewFromInt(-1), decimal.NewFromInt(1), decimal.NewFromInt(1))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestCalculateOptimalPrice_Candidates(t *testing.T) {
	calc := NewCalculator(Config{
		ProfitMargin: decimal.RequireFromString("0.30"),
		Strategy:     types.PricingStrategyCostPlus,
	})

	result, err := calc.CalculateOptimalPrice(
		"pro",
		decimal.NewFromInt(7),
		decimal.RequireFromString("1.2"),
		decimal.NewFromInt(20),
		decimal.RequireFromString("0.5"),
	)
	require.NoError(t, err)

	// cost_plus = 7 / 0.7 = 10, value_based = 20*1.2 = 24,
	// competitor_based = 20*(0.8+0.4*0.5) = 20
	assert.Equal(t, "10", result.CostPlus.String())
	assert.Equal(t, "24", result.ValueBased.String())
	assert.Equal(t, "20", result.CompetitorBased.String())

	// cost_plus strategy: 0.6*10 + 0.2*24 + 0.2*20 = 14.8 -> 14.99
	assert.Equal(t, "14.99", result.Price.StringFixed(2))
	assert.Equal(t, types.PricingStrategyCostPlus, result.Strategy)
}

func TestCalculateOptimalPrice_StrategyWeights(t *testing.T) {
	costPerUser := decimal.NewFromInt(7)
	valuePerception := decimal.RequireFromString("1.2")
	competitorPrice := decimal.NewFromInt(20)
	sensitivity := decimal.RequireFromString("0.5")

	// candidates are 10 / 24 / 20 in all cases
	tests := []struct {
		strategy types.PricingStrategy
		expected string
	}{
		{types.PricingStrategyValueBased, "20.99"},      // 2 + 14.4 + 4 = 20.4
		{types.PricingStrategyCompetitorBased, "18.99"}, // 2 + 4.8 + 12 = 18.8
		{types.PricingStrategyCostPlus, "14.99"},        // 6 + 4.8 + 4 = 14.8
		{types.PricingStrategyBalanced, "17.99"},        // 3.4 + 7.92 + 6.6 = 17.92
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			calc := NewCalculator(Config{
				ProfitMargin: decimal.RequireFromString("0.30"),
				Strategy:     tt.strategy,
			})
			result, err := calc.CalculateOptimalPrice("pro", costPerUser, valuePerception, competitorPrice, sensitivity)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Price.StringFixed(2))
		})
	}
}

func TestCalculateOptimalPrice_RejectsOutOfRangeSensitivity(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	_, err := calc.CalculateOptimalPrice("pro", decimal.NewFromInt(5), decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(2))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestAnalyzePriceSensitivity_UnitElasticity(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	analysis, err := calc.AnalyzePriceSensitivity(decimal.NewFromInt(20), 1000, 1.0)
	require.NoError(t, err)
	require.Len(t, analysis.Points, 5)

	// Unit elasticity keeps revenue constant across all price points.
	base := analysis.Points[0].Revenue
	for _, point := range analysis.Points[1:] {
		diff := point.Revenue.Sub(base).Abs()
		assert.True(t, diff.LessThan(decimal.RequireFromString("0.01")),
			"revenue at multiplier %s deviates: %s vs %s", point.Multiplier, point.Revenue, base)
	}
}

func TestAnalyzePriceSensitivity_ElasticAndInelastic(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	// Elasticity above one: discounting maximizes revenue.
	elastic, err := calc.AnalyzePriceSensitivity(decimal.NewFromInt(20), 1000, 2.0)
	require.NoError(t, err)
	assert.Equal(t, "0.5", elastic.Optimal.Multiplier.String())

	// Elasticity below one: premium pricing maximizes revenue.
	inelastic, err := calc.AnalyzePriceSensitivity(decimal.NewFromInt(20), 1000, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "1.5", inelastic.Optimal.Multiplier.String())
}

func TestAnalyzePriceSensitivity_RejectsNonPositiveBase(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	_, err := calc.AnalyzePriceSensitivity(decimal.Zero, 1000, 1.0)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
