package readstore

import (
	"context"

	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type LoyaltyReadStore struct {
	db db.DBTX
}

func NewLoyaltyReadStore(dbtx db.DBTX) *LoyaltyReadStore {
	return &LoyaltyReadStore{db: dbtx}
}

var _ queries.LoyaltyReadStore = (*LoyaltyReadStore)(nil)

const findAccountByUserSQL = `
SELECT user_id, points, tier, updated_at
FROM loyalty_accounts
WHERE user_id = $1`

func (r *LoyaltyReadStore) FindAccountByUserID(ctx context.Context, userID uuid.UUID) (*queries.LoyaltyAccountView, error) {
	var (
		view      queries.LoyaltyAccountView
		updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findAccountByUserSQL, pgconv.UUIDToPgtype(userID)).Scan(
		&view.UserID, &view.Points, &view.Tier, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loyalty account", err)
	}
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

const findTransactionsByUserSQL = `
SELECT t.id, t.points, t.type, t.reason, t.created_at
FROM loyalty_transactions t
JOIN loyalty_accounts a ON a.id = t.account_id
WHERE a.user_id = $1
ORDER BY t.created_at DESC`

func (r *LoyaltyReadStore) FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.LoyaltyTransactionView, error) {
	rows, err := r.db.Query(ctx, findTransactionsByUserSQL, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find loyalty transactions", err)
	}
	defer rows.Close()

	views := []*queries.LoyaltyTransactionView{}
	for rows.Next() {
		var (
			view      queries.LoyaltyTransactionView
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&view.ID, &view.Points, &view.Type, &view.Reason, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan loyalty transaction", err)
		}
		view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read loyalty transactions", err)
	}
	return views, nil
}
