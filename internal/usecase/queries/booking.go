package queries

import (
	"context"

	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

const defaultPageSize = 20

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	FindPending(ctx context.Context) ([]*BookingListItem, error)
	FindPage(ctx context.Context, limit, offset int32) ([]*BookingListItem, int64, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
	ListPending(ctx context.Context) ([]*BookingListItem, error)
	ListPage(ctx context.Context, pageNumber, pageSize int) (*BookingPage, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Wrap(err, "failed to find booking")
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error) {
	items, err := q.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find user bookings")
	}
	return items, nil
}

func (q *bookingQueriesImpl) ListPending(ctx context.Context) ([]*BookingListItem, error) {
	items, err := q.store.FindPending(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find pending bookings")
	}
	return items, nil
}

func (q *bookingQueriesImpl) ListPage(ctx context.Context, pageNumber, pageSize int) (*BookingPage, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	offset := int32((pageNumber - 1) * pageSize)

	items, total, err := q.store.FindPage(ctx, int32(pageSize), offset)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find booking page")
	}
	return &BookingPage{
		Items:      items,
		TotalCount: total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}
