//go:build unit

package booking_test

import (
	"testing"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/domain/loyalty"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	calc := booking.NewStandardPriceCalculator()

	cases := []struct {
		name string
		rate int64
		days int
		tier loyalty.Tier
		want string
	}{
		{name: "single day no discounts", rate: 50, days: 1, tier: loyalty.TierBronze, want: "50.00"},
		{name: "two days below multi-day threshold", rate: 50, days: 2, tier: loyalty.TierBronze, want: "100.00"},
		{name: "three days hits multi-day discount", rate: 50, days: 3, tier: loyalty.TierBronze, want: "135.00"},
		{name: "multi-day and gold tier stack", rate: 100, days: 5, tier: loyalty.TierGold, want: "405.00"},
		{name: "silver tier alone", rate: 100, days: 2, tier: loyalty.TierSilver, want: "190.00"},
		{name: "platinum tier with multi-day", rate: 100, days: 4, tier: loyalty.TierPlatinum, want: "306.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := calc.Quote(decimal.NewFromInt(tc.rate), tc.days, tc.tier)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestExtensionCharge(t *testing.T) {
	calc := booking.NewStandardPriceCalculator()

	cases := []struct {
		name         string
		rate         int64
		originalDays int
		newDays      int
		priorTotal   string
		tier         loyalty.Tier
		want         string
	}{
		{
			// 2 days at 40 = 80 paid; 4 days discounted = 144; charge is the difference.
			name: "extension crossing the discount threshold", rate: 40,
			originalDays: 2, newDays: 4, priorTotal: "80.00",
			tier: loyalty.TierBronze, want: "64.00",
		},
		{
			name: "both stays below threshold charge full rate", rate: 40,
			originalDays: 1, newDays: 2, priorTotal: "40.00",
			tier: loyalty.TierBronze, want: "40.00",
		},
		{
			name: "both stays at or above threshold discount added days only", rate: 40,
			originalDays: 3, newDays: 5, priorTotal: "108.00",
			tier: loyalty.TierBronze, want: "72.00",
		},
		{
			name: "tier multiplier applies to the crossing charge", rate: 40,
			originalDays: 2, newDays: 4, priorTotal: "80.00",
			tier: loyalty.TierGold, want: "57.60",
		},
		{
			name: "tier multiplier applies below threshold", rate: 100,
			originalDays: 1, newDays: 2, priorTotal: "100.00",
			tier: loyalty.TierPlatinum, want: "85.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prior, err := decimal.NewFromString(tc.priorTotal)
			assert.NoError(t, err)
			got := calc.ExtensionCharge(decimal.NewFromInt(tc.rate), tc.originalDays, tc.newDays, prior, tc.tier)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

// A two-day stay followed by a crossing extension prices differently than
// booking the full stay at once with the same prior discount path. The
// crossing branch reprices the whole stay, so an undiscounted prior total
// yields a smaller charge than the per-day rate would suggest.
func TestExtensionChargeCrossingUsesWholeStayRepricing(t *testing.T) {
	calc := booking.NewStandardPriceCalculator()
	rate := decimal.NewFromInt(100)

	prior := calc.Quote(rate, 2, loyalty.TierBronze) // 200.00
	charge := calc.ExtensionCharge(rate, 2, 3, prior, loyalty.TierBronze)

	// Whole stay discounted: 300 * 0.9 = 270; minus 200 already booked.
	assert.Equal(t, "70.00", charge.StringFixed(2))

	// The same day added between two already-discounted stays costs 90.
	charge = calc.ExtensionCharge(rate, 3, 4, calc.Quote(rate, 3, loyalty.TierBronze), loyalty.TierBronze)
	assert.Equal(t, "90.00", charge.StringFixed(2))
}
