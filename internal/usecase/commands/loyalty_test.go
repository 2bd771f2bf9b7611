//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/pkg/clock"
	"car-rental-backend/internal/usecase/commands"
	"car-rental-backend/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPoints(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	newLoyaltyCommands := func(uow *testutil.FakeUoW) commands.LoyaltyCommands {
		return commands.NewLoyaltyCommands(uow, clock.NewMockClock(now))
	}

	t.Run("creates the account on first award and appends a ledger entry", func(t *testing.T) {
		uow := testutil.NewFakeUoW()
		uc := newLoyaltyCommands(uow)
		userID := uuid.New()

		err := uc.AddPoints(ctx, userID, 150, "Welcome bonus")
		require.NoError(t, err)

		acct := uow.State.LoyaltyAccounts[userID]
		require.NotNil(t, acct)
		assert.Equal(t, int64(150), acct.Points)
		assert.Equal(t, loyalty.TierBronze, acct.Tier)

		require.Len(t, uow.State.LoyaltyLedger, 1)
		entry := uow.State.LoyaltyLedger[0]
		assert.Equal(t, acct.ID, entry.AccountID())
		assert.Equal(t, int64(150), entry.Points())
		assert.Equal(t, loyalty.TransactionEarned, entry.Type())
		assert.Equal(t, "Welcome bonus", entry.Reason())
	})

	t.Run("promotes the tier when the balance crosses a threshold", func(t *testing.T) {
		uow := testutil.NewFakeUoW()
		uc := newLoyaltyCommands(uow)
		userID := uuid.New()
		seedLoyaltyAccount(uow, userID, 950, loyalty.TierBronze)

		err := uc.AddPoints(ctx, userID, 100, "Booking bonus")
		require.NoError(t, err)

		acct := uow.State.LoyaltyAccounts[userID]
		assert.Equal(t, int64(1050), acct.Points)
		assert.Equal(t, loyalty.TierSilver, acct.Tier)
	})

	t.Run("a redemption may demote the tier", func(t *testing.T) {
		uow := testutil.NewFakeUoW()
		uc := newLoyaltyCommands(uow)
		userID := uuid.New()
		seedLoyaltyAccount(uow, userID, 2100, loyalty.TierGold)

		err := uc.AddPoints(ctx, userID, -500, "Discount redemption")
		require.NoError(t, err)

		acct := uow.State.LoyaltyAccounts[userID]
		assert.Equal(t, int64(1600), acct.Points)
		assert.Equal(t, loyalty.TierSilver, acct.Tier)

		require.Len(t, uow.State.LoyaltyLedger, 1)
		assert.Equal(t, loyalty.TransactionRedeemed, uow.State.LoyaltyLedger[0].Type())
	})

	t.Run("rejects an overdraw and leaves the balance untouched", func(t *testing.T) {
		uow := testutil.NewFakeUoW()
		uc := newLoyaltyCommands(uow)
		userID := uuid.New()
		seedLoyaltyAccount(uow, userID, 100, loyalty.TierBronze)

		err := uc.AddPoints(ctx, userID, -200, "Discount redemption")
		assert.ErrorIs(t, err, commands.ErrInsufficientPoints)

		assert.Equal(t, int64(100), uow.State.LoyaltyAccounts[userID].Points)
		assert.Empty(t, uow.State.LoyaltyLedger)
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		uow := testutil.NewFakeUoW()
		uc := newLoyaltyCommands(uow)

		err := uc.AddPoints(ctx, uuid.New(), 0, "noop")
		assert.ErrorIs(t, err, commands.ErrZeroPointDelta)
		assert.Empty(t, uow.State.LoyaltyAccounts)
	})
}
