package repository

import (
	"context"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReads serves the write side's validation lookups. Bound to a DBTX
// so the same code reads inside a command transaction or off the pool.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

var _ shared.CommandReads = (*CommandReads)(nil)

const vehicleSnapshotSQL = `
SELECT id, make, model, daily_rate, status
FROM vehicles
WHERE id = $1`

func (r *CommandReads) VehicleByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	var (
		snap      shared.VehicleSnapshot
		dailyRate pgtype.Numeric
		status    string
	)
	err := r.db.QueryRow(ctx, vehicleSnapshotSQL, pgconv.UUIDToPgtype(id)).Scan(
		&snap.ID, &snap.Make, &snap.Model, &dailyRate, &status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read vehicle", err)
	}
	rate, err := pgconv.DecimalFromNumeric(dailyRate)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid vehicle rate", err)
	}
	snap.DailyRate = rate
	snap.Status = vehicle.Status(status)
	return &snap, nil
}

const userSnapshotSQL = `
SELECT id, email, first_name, last_name
FROM users
WHERE id = $1`

func (r *CommandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	var snap shared.UserSnapshot
	err := r.db.QueryRow(ctx, userSnapshotSQL, pgconv.UUIDToPgtype(id)).Scan(
		&snap.ID, &snap.Email, &snap.FirstName, &snap.LastName,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read user", err)
	}
	return &snap, nil
}

const bookingSnapshotSQL = `
SELECT id, user_id, vehicle_id, pickup_at, return_at, total_price,
       status, payment_method, payment_status,
       COALESCE(pickup_location, ''), COALESCE(return_location, ''), COALESCE(notes, ''),
       booked_at, created_at, updated_at
FROM bookings
WHERE id = $1`

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap          shared.BookingSnapshot
		pickupAt      pgtype.Timestamptz
		returnAt      pgtype.Timestamptz
		totalPrice    pgtype.Numeric
		status        string
		paymentMethod string
		paymentStatus string
		bookedAt      pgtype.Timestamptz
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, bookingSnapshotSQL, pgconv.UUIDToPgtype(id)).Scan(
		&snap.ID, &snap.UserID, &snap.VehicleID,
		&pickupAt, &returnAt, &totalPrice,
		&status, &paymentMethod, &paymentStatus,
		&snap.PickupLocation, &snap.ReturnLocation, &snap.Notes,
		&bookedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read booking", err)
	}
	price, err := pgconv.DecimalFromNumeric(totalPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking total", err)
	}
	snap.PickupAt = pgconv.TimeFromPgtype(pickupAt)
	snap.ReturnAt = pgconv.TimeFromPgtype(returnAt)
	snap.TotalPrice = price
	snap.Status = booking.Status(status)
	snap.PaymentMethod = booking.PaymentMethod(paymentMethod)
	snap.PaymentStatus = booking.PaymentStatus(paymentStatus)
	snap.BookedAt = pgconv.TimeFromPgtype(bookedAt)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	snap.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &snap, nil
}

const loyaltySnapshotSQL = `
SELECT id, user_id, points, tier
FROM loyalty_accounts
WHERE user_id = $1`

func (r *CommandReads) LoyaltyAccountByUserID(ctx context.Context, userID uuid.UUID) (*shared.LoyaltyAccountSnapshot, error) {
	var (
		snap shared.LoyaltyAccountSnapshot
		tier string
	)
	err := r.db.QueryRow(ctx, loyaltySnapshotSQL, pgconv.UUIDToPgtype(userID)).Scan(
		&snap.ID, &snap.UserID, &snap.Points, &tier,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read loyalty account", err)
	}
	snap.Tier = loyalty.Tier(tier)
	return &snap, nil
}
