// Package projection implements cohort user-growth simulation and the
// revenue, lifetime-value and payback computations built on top of it.
package projection

import (
	"math"

	"github.com/shopspring/decimal"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

// Config is the projector's value-object configuration. Rates are
// fractions per month.
type Config struct {
	// InitialUsers is the starting size of the whole user base.
	InitialUsers int64 `json:"initial_users"`
	// InitialPaidUsers is the starting number of paying users.
	InitialPaidUsers int64 `json:"initial_paid_users"`
	// MonthlyAcquisition is the base number of users acquired per month;
	// it compounds by the growth rate every month.
	MonthlyAcquisition int64 `json:"monthly_acquisition"`
	// ChurnRate is the fraction of the user base lost per month.
	ChurnRate float64 `json:"churn_rate"`
	// ConversionRate is the fraction of free users converting to paid
	// per month.
	ConversionRate float64 `json:"conversion_rate"`
	// TierDistribution allocates paid users across tier ids; the shares
	// must sum to 1.0.
	TierDistribution map[string]float64 `json:"tier_distribution,omitempty"`
}

const distributionTolerance = 1e-9

// Validate checks the configured rates and distribution.
func (c Config) Validate() error {
	if c.InitialUsers < 0 || c.InitialPaidUsers < 0 || c.MonthlyAcquisition < 0 {
		return ierr.NewError("user counts cannot be negative").
			WithHint("Initial and acquisition user counts must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	if c.InitialPaidUsers > c.InitialUsers {
		return ierr.NewError("paid users cannot exceed total users").
			WithReportableDetails(map[string]interface{}{
				"initial_users":      c.InitialUsers,
				"initial_paid_users": c.InitialPaidUsers,
			}).
			Mark(ierr.ErrValidation)
	}
	if c.ChurnRate < 0 || c.ChurnRate >= 1 {
		return ierr.NewError("churn rate must be in [0, 1)").
			WithReportableDetails(map[string]interface{}{"churn_rate": c.ChurnRate}).
			Mark(ierr.ErrValidation)
	}
	if c.ConversionRate < 0 || c.ConversionRate >= 1 {
		return ierr.NewError("conversion rate must be in [0, 1)").
			WithReportableDetails(map[string]interface{}{"conversion_rate": c.ConversionRate}).
			Mark(ierr.ErrValidation)
	}
	if len(c.TierDistribution) > 0 {
		sum := 0.0
		for tierID, share := range c.TierDistribution {
			if share < 0 {
				return ierr.NewError("tier distribution share cannot be negative").
					WithReportableDetails(map[string]interface{}{"tier_id": tierID, "share": share}).
					Mark(ierr.ErrValidation)
			}
			sum += share
		}
		if math.Abs(sum-1.0) > distributionTolerance {
			return ierr.NewError("tier distribution must sum to 1.0").
				WithReportableDetails(map[string]interface{}{"sum": sum}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Projector runs cohort simulations from a fixed configuration.
type Projector struct {
	cfg Config
}

func NewProjector(cfg Config) (*Projector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Projector{cfg: cfg}, nil
}

// UserMonth is one simulated month of the user base.
type UserMonth struct {
	Month       int   `json:"month"`
	NewUsers    int64 `json:"new_users"`
	Churned     int64 `json:"churned"`
	Conversions int64 `json:"conversions"`
	TotalUsers  int64 `json:"total_users"`
	PaidUsers   int64 `json:"paid_users"`
	FreeUsers   int64 `json:"free_users"`
}

// ProjectUsers simulates the user base month by month. Acquisition
// compounds by the growth rate; churn and conversions floor to whole
// users; all counts stay non-negative.
func (p *Projector) ProjectUsers(months int, growthRate float64) ([]UserMonth, error) {
	if months <= 0 {
		return nil, ierr.NewError("months must be positive").
			WithReportableDetails(map[string]interface{}{"months": months}).
			Mark(ierr.ErrValidation)
	}
	if growthRate < -1 {
		return nil, ierr.NewError("growth rate cannot be below -1").
			WithReportableDetails(map[string]interface{}{"growth_rate": growthRate}).
			Mark(ierr.ErrValidation)
	}

	series := make([]UserMonth, 0, months)
	total := p.cfg.InitialUsers
	paid := p.cfg.InitialPaidUsers
	acquisition := float64(p.cfg.MonthlyAcquisition)

	for month := 1; month <= months; month++ {
		newUsers := int64(math.Floor(acquisition))
		churned := int64(math.Floor(float64(total) * p.cfg.ChurnRate))
		free := total - paid
		conversions := int64(math.Floor(float64(free) * p.cfg.ConversionRate))
		paidChurned := int64(math.Floor(float64(paid) * p.cfg.ChurnRate))

		total = total + newUsers - churned
		if total < 0 {
			total = 0
		}
		paid = paid + conversions - paidChurned
		if paid < 0 {
			paid = 0
		}
		if paid > total {
			paid = total
		}

		series = append(series, UserMonth{
			Month:       month,
			NewUsers:    newUsers,
			Churned:     churned,
			Conversions: conversions,
			TotalUsers:  total,
			PaidUsers:   paid,
			FreeUsers:   total - paid,
		})

		acquisition *= 1 + growthRate
	}

	return series, nil
}

// RevenueMonth is one simulated month of revenue.
type RevenueMonth struct {
	Month             int                        `json:"month"`
	PaidUsers         int64                      `json:"paid_users"`
	TierUsers         map[string]int64           `json:"tier_users"`
	TierRevenue       map[string]decimal.Decimal `json:"tier_revenue"`
	MonthlyRevenue    decimal.Decimal            `json:"monthly_revenue"`
	CumulativeRevenue decimal.Decimal            `json:"cumulative_revenue"`
}

// ProjectRevenue runs the user simulation and allocates each month's paid
// users across tiers by the configured distribution, pricing them with
// the given per-tier monthly prices.
func (p *Projector) ProjectRevenue(months int, growthRate float64, tierPrices map[string]decimal.Decimal) ([]RevenueMonth, error) {
	if len(p.cfg.TierDistribution) == 0 {
		return nil, ierr.NewError("tier distribution is required for revenue projection").
			WithHint("Configure a tier distribution that sums to 1.0").
			Mark(ierr.ErrValidation)
	}
	for tierID := range p.cfg.TierDistribution {
		if _, ok := tierPrices[tierID]; !ok {
			return nil, ierr.NewError("missing price for distributed tier").
				WithReportableDetails(map[string]interface{}{"tier_id": tierID}).
				Mark(ierr.ErrValidation)
		}
	}

	users, err := p.ProjectUsers(months, growthRate)
	if err != nil {
		return nil, err
	}

	series := make([]RevenueMonth, 0, months)
	cumulative := decimal.Zero
	for _, um := range users {
		tierUsers := make(map[string]int64, len(p.cfg.TierDistribution))
		tierRevenue := make(map[string]decimal.Decimal, len(p.cfg.TierDistribution))
		monthly := decimal.Zero
		for tierID, share := range p.cfg.TierDistribution {
			count := int64(math.Floor(float64(um.PaidUsers) * share))
			revenue := tierPrices[tierID].Mul(decimal.NewFromInt(count))
			tierUsers[tierID] = count
			tierRevenue[tierID] = revenue
			monthly = monthly.Add(revenue)
		}
		cumulative = cumulative.Add(monthly)
		series = append(series, RevenueMonth{
			Month:             um.Month,
			PaidUsers:         um.PaidUsers,
			TierUsers:         tierUsers,
			TierRevenue:       tierRevenue,
			MonthlyRevenue:    monthly,
			CumulativeRevenue: cumulative,
		})
	}

	return series, nil
}

// LifetimeValue is the perpetuity-model LTV of a customer.
type LifetimeValue struct {
	ARPU           decimal.Decimal `json:"arpu"`
	ChurnRate      float64         `json:"churn_rate"`
	LifetimeMonths decimal.Decimal `json:"lifetime_months"`
	LifetimeValue  decimal.Decimal `json:"lifetime_value"`
	OneYearValue   decimal.Decimal `json:"one_year_value"`
	ThreeYearValue decimal.Decimal `json:"three_year_value"`
	FiveYearValue  decimal.Decimal `json:"five_year_value"`
}

// CalculateLifetimeValue computes LTV as ARPU divided by the monthly
// churn rate. A zero churn argument falls back to the configured rate.
func (p *Projector) CalculateLifetimeValue(arpu decimal.Decimal, churnRate float64) (*LifetimeValue, error) {
	if churnRate == 0 {
		churnRate = p.cfg.ChurnRate
	}
	if churnRate <= 0 || churnRate >= 1 {
		return nil, ierr.NewError("churn rate must be in (0, 1)").
			WithReportableDetails(map[string]interface{}{"churn_rate": churnRate}).
			Mark(ierr.ErrValidation)
	}
	if arpu.IsNegative() {
		return nil, ierr.NewError("arpu cannot be negative").
			WithReportableDetails(map[string]interface{}{"arpu": arpu.String()}).
			Mark(ierr.ErrValidation)
	}

	churn := decimal.NewFromFloat(churnRate)
	lifetimeMonths := decimal.NewFromInt(1).Div(churn)

	horizonValue := func(months int64) decimal.Decimal {
		horizon := decimal.NewFromInt(months)
		if lifetimeMonths.LessThan(horizon) {
			horizon = lifetimeMonths
		}
		return arpu.Mul(horizon)
	}

	return &LifetimeValue{
		ARPU:           arpu,
		ChurnRate:      churnRate,
		LifetimeMonths: lifetimeMonths,
		LifetimeValue:  arpu.Div(churn),
		OneYearValue:   horizonValue(12),
		ThreeYearValue: horizonValue(36),
		FiveYearValue:  horizonValue(60),
	}, nil
}

// CalculatePaybackPeriod returns the months needed to recover the
// customer acquisition cost at the given ARPU and gross margin. A zero
// margin defaults to 0.8.
func (p *Projector) CalculatePaybackPeriod(cac, arpu, grossMargin decimal.Decimal) (decimal.Decimal, error) {
	if grossMargin.IsZero() {
		grossMargin = decimal.RequireFromString("0.8")
	}
	if cac.IsNegative() {
		return decimal.Zero, ierr.NewError("cac cannot be negative").
			WithReportableDetails(map[string]interface{}{"cac": cac.String()}).
			Mark(ierr.ErrValidation)
	}
	if !arpu.IsPositive() || !grossMargin.IsPositive() {
		return decimal.Zero, ierr.NewError("arpu and gross margin must be positive").
			WithReportableDetails(map[string]interface{}{
				"arpu":         arpu.String(),
				"gross_margin": grossMargin.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return cac.Div(arpu.Mul(grossMargin)), nil
}

// RevenueBreakdown is the per-tier revenue of a concrete user census.
type RevenueBreakdown struct {
	TierRevenue  map[string]decimal.Decimal `json:"tier_revenue"`
	TotalRevenue decimal.Decimal            `json:"total_revenue"`
	TotalUsers   int64                      `json:"total_users"`
	ARPU         decimal.Decimal            `json:"arpu"`
}

// CalculateRevenueBreakdown prices a user census: per-tier revenue,
// total, and ARPU (zero when there are no users).
func CalculateRevenueBreakdown(tierPrices map[string]decimal.Decimal, userCounts map[string]int64) (*RevenueBreakdown, error) {
	breakdown := &RevenueBreakdown{
		TierRevenue: make(map[string]decimal.Decimal, len(userCounts)),
	}
	for tierID, count := range userCounts {
		if count < 0 {
			return nil, ierr.NewError("user count cannot be negative").
				WithReportableDetails(map[string]interface{}{"tier_id": tierID, "count": count}).
				Mark(ierr.ErrValidation)
		}
		price, ok := tierPrices[tierID]
		if !ok {
			return nil, ierr.NewError("missing price for tier").
				WithReportableDetails(map[string]interface{}{"tier_id": tierID}).
				Mark(ierr.ErrValidation)
		}
		revenue := price.Mul(decimal.NewFromInt(count))
		breakdown.TierRevenue[tierID] = revenue
		breakdown.TotalRevenue = breakdown.TotalRevenue.Add(revenue)
		breakdown.TotalUsers += count
	}
	if breakdown.TotalUsers > 0 {
		breakdown.ARPU = breakdown.TotalRevenue.Div(decimal.NewFromInt(breakdown.TotalUsers))
	}
	return breakdown, nil
}
