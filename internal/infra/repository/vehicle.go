package repository

import (
	"context"

	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/pkg/pgconv"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

type VehicleRepository struct{}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{}
}

var _ shared.VehicleRepository = (*VehicleRepository)(nil)

const updateVehicleStatusSQL = `
UPDATE vehicles
SET status = $2, updated_at = now()
WHERE id = $1`

func (r *VehicleRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status vehicle.Status) error {
	tag, err := dbtx.Exec(ctx, updateVehicleStatusSQL, pgconv.UUIDToPgtype(id), status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update vehicle status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	return nil
}

// The lock key is derived from the vehicle id so concurrent bookings of the
// same vehicle serialize while different vehicles proceed in parallel. The
// lock releases with the enclosing transaction.
const acquireVehicleLockSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

func (r *VehicleRepository) AcquireLock(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	if _, err := dbtx.Exec(ctx, acquireVehicleLockSQL, id.String()); err != nil {
		return infra.WrapRepoErr("failed to acquire vehicle lock", err)
	}
	return nil
}
