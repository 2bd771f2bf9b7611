package readstore

import (
	"context"

	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: dbtx}
}

var _ queries.VehicleReadStore = (*VehicleReadStore)(nil)

const findVehicleByIDSQL = `
SELECT id, make, model, year, license_plate, daily_rate, status, created_at, updated_at
FROM vehicles
WHERE id = $1`

func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.VehicleView, error) {
	row := r.db.QueryRow(ctx, findVehicleByIDSQL, pgconv.UUIDToPgtype(id))
	view, err := scanVehicleView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}
	return view, nil
}

// Bookable means not pulled for maintenance: period conflicts are resolved
// against bookings at booking time, not against this list.
const findAvailableVehiclesSQL = `
SELECT id, make, model, year, license_plate, daily_rate, status, created_at, updated_at
FROM vehicles
WHERE status NOT IN ('maintenance', 'out_of_service')
ORDER BY make, model`

func (r *VehicleReadStore) FindAvailable(ctx context.Context) ([]*queries.VehicleView, error) {
	rows, err := r.db.Query(ctx, findAvailableVehiclesSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find available vehicles", err)
	}
	defer rows.Close()

	views := []*queries.VehicleView{}
	for rows.Next() {
		view, err := scanVehicleView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan vehicle", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read vehicles", err)
	}
	return views, nil
}

func scanVehicleView(row pgx.Row) (*queries.VehicleView, error) {
	var (
		view      queries.VehicleView
		dailyRate pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Make, &view.Model, &view.Year, &view.LicensePlate,
		&dailyRate, &view.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	rate, err := pgconv.DecimalFromNumeric(dailyRate)
	if err != nil {
		return nil, err
	}
	view.DailyRate = rate
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
