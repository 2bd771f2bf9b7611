package repository

import (
	"context"
	"errors"
	"time"

	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeCheckViolation = "23514"

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeCheckViolation
}

type LoyaltyRepository struct{}

func NewLoyaltyRepository() *LoyaltyRepository {
	return &LoyaltyRepository{}
}

var _ shared.LoyaltyRepository = (*LoyaltyRepository)(nil)

// Accounts are created lazily on first point activity. The upsert returns
// the id either way so callers never race on existence.
const ensureAccountSQL = `
INSERT INTO loyalty_accounts (id, user_id, points, tier, created_at, updated_at)
VALUES ($1, $2, 0, 'bronze', $3, $3)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id`

func (r *LoyaltyRepository) EnsureAccount(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, now time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, ensureAccountSQL,
		pgconv.UUIDToPgtype(uuid.New()),
		pgconv.UUIDToPgtype(userID),
		pgconv.TimeToPgtype(now),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to ensure loyalty account", err)
	}
	return id, nil
}

// The balance update is a relative increment so concurrent transactions for
// the same account never lose points. The schema's CHECK rejects overdrafts.
const incrementPointsSQL = `
UPDATE loyalty_accounts
SET points = points + $2, updated_at = $3
WHERE id = $1
RETURNING points`

func (r *LoyaltyRepository) IncrementPoints(ctx context.Context, dbtx db.DBTX, accountID uuid.UUID, delta int64, now time.Time) (int64, error) {
	var balance int64
	err := dbtx.QueryRow(ctx, incrementPointsSQL,
		pgconv.UUIDToPgtype(accountID), delta, pgconv.TimeToPgtype(now),
	).Scan(&balance)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("loyalty account not found", err, infra.KindNotFound)
		}
		if isCheckViolation(err) {
			return 0, infra.WrapRepoErr("point balance overdraw", err, infra.KindConflict)
		}
		return 0, infra.WrapRepoErr("failed to increment loyalty points", err)
	}
	return balance, nil
}

const setTierSQL = `
UPDATE loyalty_accounts
SET tier = $2
WHERE id = $1`

func (r *LoyaltyRepository) SetTier(ctx context.Context, dbtx db.DBTX, accountID uuid.UUID, tier loyalty.Tier) error {
	tag, err := dbtx.Exec(ctx, setTierSQL, pgconv.UUIDToPgtype(accountID), tier.String())
	if err != nil {
		return infra.WrapRepoErr("failed to set loyalty tier", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
	}
	return nil
}

const appendTransactionSQL = `
INSERT INTO loyalty_transactions (id, account_id, points, type, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *LoyaltyRepository) AppendTransaction(ctx context.Context, dbtx db.DBTX, tx *loyalty.Transaction) error {
	_, err := dbtx.Exec(ctx, appendTransactionSQL,
		pgconv.UUIDToPgtype(tx.ID()),
		pgconv.UUIDToPgtype(tx.AccountID()),
		tx.Points(),
		tx.Type().String(),
		tx.Reason(),
		pgconv.TimeToPgtype(tx.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append loyalty transaction", err)
	}
	return nil
}
