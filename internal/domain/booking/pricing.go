package booking

import (
	"car-rental-backend/internal/domain/loyalty"

	"github.com/shopspring/decimal"
)

// Multi-day discount: 10% off the whole base price once the rental reaches
// three billable days. Evaluated once on the base, never stacked per day.
const multiDayThreshold = 3

var multiDayMultiplier = decimal.NewFromFloat(0.90)

type PriceCalculator interface {
	Quote(dailyRate decimal.Decimal, days int, tier loyalty.Tier) decimal.Decimal
	ExtensionCharge(dailyRate decimal.Decimal, originalDays, newDays int, priorTotal decimal.Decimal, tier loyalty.Tier) decimal.Decimal
}

type StandardPriceCalculator struct{}

func NewStandardPriceCalculator() *StandardPriceCalculator {
	return &StandardPriceCalculator{}
}

// Quote prices a whole stay: base = rate x days, then the multi-day
// multiplier, then the loyalty-tier multiplier, rounded to cents.
func (pc *StandardPriceCalculator) Quote(dailyRate decimal.Decimal, days int, tier loyalty.Tier) decimal.Decimal {
	total := dailyRate.Mul(decimal.NewFromInt(int64(days)))
	if days >= multiDayThreshold {
		total = total.Mul(multiDayMultiplier)
	}
	total = total.Mul(tier.PriceMultiplier())
	return total.Round(2)
}

// ExtensionCharge prices the added days of an extension.
//
// The discount handling is asymmetric across the three-day boundary and that
// asymmetry is contractual: when the extension alone crosses the boundary
// (original stay under three days, new stay at or over), the charge is the
// newly discounted whole-stay total minus the previously stored total; when
// both stays sit at or over the boundary, only the additional days get the
// multi-day multiplier; under the boundary the additional days price at full
// rate. The tier multiplier applies to the resulting charge in every branch.
func (pc *StandardPriceCalculator) ExtensionCharge(
	dailyRate decimal.Decimal,
	originalDays, newDays int,
	priorTotal decimal.Decimal,
	tier loyalty.Tier,
) decimal.Decimal {
	additionalDays := newDays - originalDays
	charge := dailyRate.Mul(decimal.NewFromInt(int64(additionalDays)))

	switch {
	case newDays >= multiDayThreshold && originalDays < multiDayThreshold:
		newTotal := dailyRate.Mul(decimal.NewFromInt(int64(newDays))).Mul(multiDayMultiplier)
		charge = newTotal.Sub(priorTotal)
	case newDays >= multiDayThreshold:
		charge = charge.Mul(multiDayMultiplier)
	}

	charge = charge.Mul(tier.PriceMultiplier())
	return charge.Round(2)
}
