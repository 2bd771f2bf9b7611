package repository

import (
	"context"
	"time"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

var _ shared.BookingRepository = (*BookingRepository)(nil)

const createBookingSQL = `
INSERT INTO bookings (
    id, user_id, vehicle_id, pickup_at, return_at, total_price,
    status, payment_method, payment_status,
    pickup_location, return_location, notes, booked_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBookingSQL,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDToPgtype(b.UserID()),
		pgconv.UUIDToPgtype(b.VehicleID()),
		pgconv.TimeToPgtype(b.Period().PickupAt()),
		pgconv.TimeToPgtype(b.Period().ReturnAt()),
		pgconv.DecimalToNumeric(b.Total()),
		b.Status().String(),
		b.PaymentMethod().String(),
		b.PaymentStatus().String(),
		b.PickupLocation(),
		b.ReturnLocation(),
		b.Notes(),
		pgconv.TimeToPgtype(b.BookedAt()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, payment_status = $3, updated_at = now()
WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status, paymentStatus booking.PaymentStatus) error {
	tag, err := dbtx.Exec(ctx, updateBookingStatusSQL,
		pgconv.UUIDToPgtype(id), status.String(), paymentStatus.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const updateBookingScheduleSQL = `
UPDATE bookings
SET return_at = $2, total_price = $3, updated_at = now()
WHERE id = $1`

func (r *BookingRepository) UpdateSchedule(ctx context.Context, dbtx db.DBTX, id uuid.UUID, returnAt time.Time, total decimal.Decimal) error {
	tag, err := dbtx.Exec(ctx, updateBookingScheduleSQL,
		pgconv.UUIDToPgtype(id), pgconv.TimeToPgtype(returnAt), pgconv.DecimalToNumeric(total))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking schedule", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// Overlap bounds are inclusive on both ends: a rental returning the same
// instant another picks up still conflicts. Only live bookings count.
const hasOverlapSQL = `
SELECT EXISTS (
    SELECT 1 FROM bookings
    WHERE vehicle_id = $1
      AND status IN ('requested', 'approved')
      AND pickup_at <= $3
      AND return_at >= $2
      AND ($4::uuid IS NULL OR id <> $4)
)`

func (r *BookingRepository) HasOverlap(ctx context.Context, dbtx db.DBTX, vehicleID uuid.UUID, period booking.RentalPeriod, excludeBookingID *uuid.UUID) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx, hasOverlapSQL,
		pgconv.UUIDToPgtype(vehicleID),
		pgconv.TimeToPgtype(period.PickupAt()),
		pgconv.TimeToPgtype(period.ReturnAt()),
		pgconv.UUIDPtrToPgtype(excludeBookingID),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}
