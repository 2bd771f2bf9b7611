//go:build unit

package loyalty_test

import (
	"testing"
	"time"

	"car-rental-backend/internal/domain/loyalty"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForBalance(t *testing.T) {
	cases := []struct {
		points int64
		want   loyalty.Tier
	}{
		{0, loyalty.TierBronze},
		{999, loyalty.TierBronze},
		{1000, loyalty.TierSilver},
		{1999, loyalty.TierSilver},
		{2000, loyalty.TierGold},
		{4999, loyalty.TierGold},
		{5000, loyalty.TierPlatinum},
		{100000, loyalty.TierPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, loyalty.TierForBalance(tc.points), "points=%d", tc.points)
	}
}

func TestPriceMultiplier(t *testing.T) {
	cases := []struct {
		tier loyalty.Tier
		want string
	}{
		{loyalty.TierBronze, "1"},
		{loyalty.TierSilver, "0.95"},
		{loyalty.TierGold, "0.9"},
		{loyalty.TierPlatinum, "0.85"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.tier.PriceMultiplier().String(), "tier=%s", tc.tier)
	}
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	accountID := uuid.New()

	t.Run("positive delta is earned", func(t *testing.T) {
		tx, err := loyalty.NewTransaction(accountID, 40, "Booking abc - 4 days rental", now)
		require.NoError(t, err)
		assert.Equal(t, loyalty.TransactionEarned, tx.Type())
		assert.Equal(t, int64(40), tx.Points())
	})

	t.Run("negative delta is redeemed", func(t *testing.T) {
		tx, err := loyalty.NewTransaction(accountID, -100, "Discount redemption", now)
		require.NoError(t, err)
		assert.Equal(t, loyalty.TransactionRedeemed, tx.Type())
	})

	t.Run("zero delta rejected", func(t *testing.T) {
		_, err := loyalty.NewTransaction(accountID, 0, "noop", now)
		assert.ErrorIs(t, err, loyalty.ErrZeroPointDelta)
	})

	t.Run("empty reason rejected", func(t *testing.T) {
		_, err := loyalty.NewTransaction(accountID, 10, "", now)
		assert.ErrorIs(t, err, loyalty.ErrEmptyReason)
	})
}

func TestAccountApply(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("computes the resulting balance and tier", func(t *testing.T) {
		acct := loyalty.NewAccount(uuid.New(), now)
		assert.Equal(t, loyalty.TierBronze, acct.Tier())

		balance, tier, err := acct.Apply(1500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), balance)
		assert.Equal(t, loyalty.TierSilver, tier)

		promoted := loyalty.ReconstructAccount(acct.ID(), acct.UserID(), balance, tier, now)
		balance, tier, err = promoted.Apply(4000)
		require.NoError(t, err)
		assert.Equal(t, int64(5500), balance)
		assert.Equal(t, loyalty.TierPlatinum, tier)
	})

	t.Run("overdraw rejected", func(t *testing.T) {
		acct := loyalty.ReconstructAccount(uuid.New(), uuid.New(), 100, loyalty.TierBronze, now)
		_, _, err := acct.Apply(-200)
		assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)
		// Balance unchanged after the rejected redemption.
		assert.Equal(t, int64(100), acct.Points())
	})

	t.Run("tier never demotes below the recomputed threshold", func(t *testing.T) {
		acct := loyalty.ReconstructAccount(uuid.New(), uuid.New(), 2000, loyalty.TierGold, now)
		_, tier, err := acct.Apply(-1500)
		require.NoError(t, err)
		// 500 remaining recomputes to bronze.
		assert.Equal(t, loyalty.TierBronze, tier)
	})
}

func TestReplay(t *testing.T) {
	t.Run("balance is the sum of deltas", func(t *testing.T) {
		balance, tier := loyalty.Replay([]int64{40, 40, 1000, -80, 500})
		assert.Equal(t, int64(1500), balance)
		assert.Equal(t, loyalty.TierSilver, tier)
	})

	t.Run("empty ledger is an empty bronze account", func(t *testing.T) {
		balance, tier := loyalty.Replay(nil)
		assert.Equal(t, int64(0), balance)
		assert.Equal(t, loyalty.TierBronze, tier)
	})
}
