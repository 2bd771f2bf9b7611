package queries

import (
	"context"

	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrVehicleNotFound = errs.New("vehicle not found")

type VehicleReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	FindAvailable(ctx context.Context) ([]*VehicleView, error)
}

type VehicleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error)
	ListAvailable(ctx context.Context) ([]*VehicleView, error)
}

type vehicleQueriesImpl struct {
	store VehicleReadStore
}

func NewVehicleQueries(store VehicleReadStore) VehicleQueries {
	return &vehicleQueriesImpl{store: store}
}

func (q *vehicleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*VehicleView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, errs.Wrap(err, "failed to find vehicle")
	}
	return view, nil
}

func (q *vehicleQueriesImpl) ListAvailable(ctx context.Context) ([]*VehicleView, error) {
	views, err := q.store.FindAvailable(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find available vehicles")
	}
	return views, nil
}
