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

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

var _ queries.BookingReadStore = (*BookingReadStore)(nil)

const findBookingByIDSQL = `
SELECT b.id, b.user_id, u.email, u.first_name || ' ' || u.last_name,
       b.vehicle_id, v.make, v.model, v.license_plate,
       b.pickup_at, b.return_at, b.total_price,
       b.status, b.payment_method, b.payment_status,
       b.pickup_location, b.return_location, b.notes,
       b.booked_at, b.created_at, b.updated_at
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN vehicles v ON v.id = b.vehicle_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		view       queries.BookingView
		totalPrice pgtype.Numeric
		pickupAt   pgtype.Timestamptz
		returnAt   pgtype.Timestamptz
		pickupLoc  pgtype.Text
		returnLoc  pgtype.Text
		notes      pgtype.Text
		bookedAt   pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findBookingByIDSQL, pgconv.UUIDToPgtype(id)).Scan(
		&view.ID, &view.UserID, &view.UserEmail, &view.UserName,
		&view.VehicleID, &view.VehicleMake, &view.VehicleModel, &view.LicensePlate,
		&pickupAt, &returnAt, &totalPrice,
		&view.Status, &view.PaymentMethod, &view.PaymentStatus,
		&pickupLoc, &returnLoc, &notes,
		&bookedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	price, err := pgconv.DecimalFromNumeric(totalPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking total", err)
	}
	view.TotalPrice = price
	view.PickupAt = pgconv.TimeFromPgtype(pickupAt)
	view.ReturnAt = pgconv.TimeFromPgtype(returnAt)
	view.PickupLocation = pgconv.StringPtrFromPgtype(pickupLoc)
	view.ReturnLocation = pgconv.StringPtrFromPgtype(returnLoc)
	view.Notes = pgconv.StringPtrFromPgtype(notes)
	view.BookedAt = pgconv.TimeFromPgtype(bookedAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

const bookingListItemColumns = `
SELECT b.id, b.vehicle_id, v.make, v.model,
       b.pickup_at, b.return_at, b.total_price, b.status, b.booked_at
FROM bookings b
JOIN vehicles v ON v.id = b.vehicle_id`

const findBookingsByUserSQL = bookingListItemColumns + `
WHERE b.user_id = $1
ORDER BY b.booked_at DESC`

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByUserSQL, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user bookings", err)
	}
	defer rows.Close()
	return scanBookingListItems(rows)
}

const findPendingBookingsSQL = bookingListItemColumns + `
WHERE b.status = 'requested'
ORDER BY b.booked_at ASC`

func (r *BookingReadStore) FindPending(ctx context.Context) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findPendingBookingsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find pending bookings", err)
	}
	defer rows.Close()
	return scanBookingListItems(rows)
}

const findBookingPageSQL = bookingListItemColumns + `
ORDER BY b.booked_at DESC
LIMIT $1 OFFSET $2`

const countBookingsSQL = `SELECT count(*) FROM bookings`

func (r *BookingReadStore) FindPage(ctx context.Context, limit, offset int32) ([]*queries.BookingListItem, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, countBookingsSQL).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count bookings", err)
	}

	rows, err := r.db.Query(ctx, findBookingPageSQL, limit, offset)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to find booking page", err)
	}
	defer rows.Close()

	items, err := scanBookingListItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type bookingRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBookingListItems(rows bookingRows) ([]*queries.BookingListItem, error) {
	items := []*queries.BookingListItem{}
	for rows.Next() {
		var (
			item       queries.BookingListItem
			pickupAt   pgtype.Timestamptz
			returnAt   pgtype.Timestamptz
			totalPrice pgtype.Numeric
			bookedAt   pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.VehicleMake, &item.VehicleModel,
			&pickupAt, &returnAt, &totalPrice, &item.Status, &bookedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		price, err := pgconv.DecimalFromNumeric(totalPrice)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid booking total", err)
		}
		item.TotalPrice = price
		item.PickupAt = pgconv.TimeFromPgtype(pickupAt)
		item.ReturnAt = pgconv.TimeFromPgtype(returnAt)
		item.BookedAt = pgconv.TimeFromPgtype(bookedAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking list", err)
	}
	return items, nil
}
