package queries

import (
	"context"
	"time"

	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

type LoyaltyReadStore interface {
	FindAccountByUserID(ctx context.Context, userID uuid.UUID) (*LoyaltyAccountView, error)
	FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]*LoyaltyTransactionView, error)
}

type LoyaltyQueries interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*LoyaltyAccountView, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*LoyaltyTransactionView, error)
}

type loyaltyQueriesImpl struct {
	store LoyaltyReadStore
}

func NewLoyaltyQueries(store LoyaltyReadStore) LoyaltyQueries {
	return &loyaltyQueriesImpl{store: store}
}

// GetAccount projects the user's ledger account. Accounts are created lazily
// on the first points event, so a user without one reads as an empty Bronze
// account rather than an error.
func (q *loyaltyQueriesImpl) GetAccount(ctx context.Context, userID uuid.UUID) (*LoyaltyAccountView, error) {
	account, err := q.store.FindAccountByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &LoyaltyAccountView{
				UserID:    userID,
				Points:    0,
				Tier:      loyalty.TierBronze.String(),
				UpdatedAt: time.Time{},
			}, nil
		}
		return nil, errs.Wrap(err, "failed to find loyalty account")
	}
	return account, nil
}

// ListTransactions returns the ledger newest-first; empty for absent accounts.
func (q *loyaltyQueriesImpl) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*LoyaltyTransactionView, error) {
	txs, err := q.store.FindTransactionsByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return []*LoyaltyTransactionView{}, nil
		}
		return nil, errs.Wrap(err, "failed to find loyalty transactions")
	}
	return txs, nil
}
