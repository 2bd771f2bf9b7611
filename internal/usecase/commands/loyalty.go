package commands

import (
	"context"

	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/pkg/clock"
	"car-rental-backend/internal/pkg/errs"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrZeroPointDelta     = errs.New("point delta must be non-zero")
	ErrInsufficientPoints = errs.New("insufficient point balance")
)

type LoyaltyCommands interface {
	// AddPoints appends a ledger transaction and recomputes the tier.
	// Negative deltas are redemptions and may not overdraw the balance.
	AddPoints(ctx context.Context, userID uuid.UUID, delta int64, reason string) error
}

type loyaltyUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLoyaltyCommands(uow shared.UnitOfWork, clk clock.Clock) LoyaltyCommands {
	return &loyaltyUseCaseImpl{uow: uow, clock: clk}
}

func (uc *loyaltyUseCaseImpl) AddPoints(ctx context.Context, userID uuid.UUID, delta int64, reason string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return addPointsInTx(ctx, tx, uc.clock, userID, delta, reason)
	})
}

// addPointsInTx is shared with the booking lifecycle, which awards points
// inside its own transaction. The balance update is an atomic increment;
// the tier is recomputed from the returned balance, so concurrent appends
// for the same user never lose updates.
func addPointsInTx(ctx context.Context, tx shared.Tx, clk clock.Clock, userID uuid.UUID, delta int64, reason string) error {
	if delta == 0 {
		return ErrZeroPointDelta
	}
	now := clk.Now()

	accountID, err := tx.Loyalty().EnsureAccount(ctx, tx.DB(), userID, now)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	ledgerTx, err := loyalty.NewTransaction(accountID, delta, reason, now)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	balance, err := tx.Loyalty().IncrementPoints(ctx, tx.DB(), accountID, delta, now)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(err, ErrInsufficientPoints)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if balance < 0 {
		// The schema's non-negative check should have rejected this already.
		return ErrInsufficientPoints
	}

	if err := tx.Loyalty().SetTier(ctx, tx.DB(), accountID, loyalty.TierForBalance(balance)); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Loyalty().AppendTransaction(ctx, tx.DB(), ledgerTx); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
