//go:build unit

package testutil

import (
	"context"
	"time"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/infra/db"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FakeUoW is an in-memory unit of work for command tests. All repositories
// mutate the same shared state, so a test can seed snapshots, run a command
// and assert on what was written.
type FakeUoW struct {
	State *FakeState
}

type FakeState struct {
	Users           map[uuid.UUID]*shared.UserSnapshot
	Vehicles        map[uuid.UUID]*shared.VehicleSnapshot
	Bookings        map[uuid.UUID]*shared.BookingSnapshot
	LoyaltyAccounts map[uuid.UUID]*shared.LoyaltyAccountSnapshot // by user id
	LoyaltyLedger   []*loyalty.Transaction
	Jobs            []FakeJob
	LockedVehicles  []uuid.UUID

	// Error injection knobs.
	FailCreateBooking error
}

type FakeJob struct {
	Kind      string
	Topic     string
	BookingID uuid.UUID
	Payload   []byte
	RunAt     time.Time
}

func NewFakeUoW() *FakeUoW {
	return &FakeUoW{State: &FakeState{
		Users:           map[uuid.UUID]*shared.UserSnapshot{},
		Vehicles:        map[uuid.UUID]*shared.VehicleSnapshot{},
		Bookings:        map[uuid.UUID]*shared.BookingSnapshot{},
		LoyaltyAccounts: map[uuid.UUID]*shared.LoyaltyAccountSnapshot{},
	}}
}

func (u *FakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.State})
}

func (u *FakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *FakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{state: u.State}
}

type fakeTx struct {
	state *FakeState
}

func (t *fakeTx) Bookings() shared.BookingRepository          { return &fakeBookingRepo{t.state} }
func (t *fakeTx) Vehicles() shared.VehicleRepository          { return &fakeVehicleRepo{t.state} }
func (t *fakeTx) Loyalty() shared.LoyaltyRepository           { return &fakeLoyaltyRepo{t.state} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{t.state} }
func (t *fakeTx) Reads() shared.CommandReads                  { return &fakeReads{t.state} }
func (t *fakeTx) DB() db.DBTX                                 { return nil }

type fakeReads struct {
	state *FakeState
}

func (r *fakeReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	if snap, ok := r.state.Vehicles[id]; ok {
		cp := *snap
		return &cp, nil
	}
	return nil, infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	if snap, ok := r.state.Users[id]; ok {
		cp := *snap
		return &cp, nil
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	if snap, ok := r.state.Bookings[id]; ok {
		cp := *snap
		return &cp, nil
	}
	return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
}

func (r *fakeReads) LoyaltyAccountByUserID(_ context.Context, userID uuid.UUID) (*shared.LoyaltyAccountSnapshot, error) {
	if snap, ok := r.state.LoyaltyAccounts[userID]; ok {
		cp := *snap
		return &cp, nil
	}
	return nil, infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
}

type fakeBookingRepo struct {
	state *FakeState
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	if r.state.FailCreateBooking != nil {
		return uuid.Nil, r.state.FailCreateBooking
	}
	r.state.Bookings[b.ID()] = &shared.BookingSnapshot{
		ID:             b.ID(),
		UserID:         b.UserID(),
		VehicleID:      b.VehicleID(),
		PickupAt:       b.Period().PickupAt(),
		ReturnAt:       b.Period().ReturnAt(),
		TotalPrice:     b.Total(),
		Status:         b.Status(),
		PaymentMethod:  b.PaymentMethod(),
		PaymentStatus:  b.PaymentStatus(),
		PickupLocation: b.PickupLocation(),
		ReturnLocation: b.ReturnLocation(),
		Notes:          b.Notes(),
		BookedAt:       b.BookedAt(),
	}
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.Status, paymentStatus booking.PaymentStatus) error {
	snap, ok := r.state.Bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap.Status = status
	snap.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeBookingRepo) UpdateSchedule(_ context.Context, _ db.DBTX, id uuid.UUID, returnAt time.Time, total decimal.Decimal) error {
	snap, ok := r.state.Bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	snap.ReturnAt = returnAt
	snap.TotalPrice = total
	return nil
}

func (r *fakeBookingRepo) HasOverlap(_ context.Context, _ db.DBTX, vehicleID uuid.UUID, period booking.RentalPeriod, excludeBookingID *uuid.UUID) (bool, error) {
	for id, snap := range r.state.Bookings {
		if snap.VehicleID != vehicleID {
			continue
		}
		if excludeBookingID != nil && id == *excludeBookingID {
			continue
		}
		if snap.Status != booking.StatusRequested && snap.Status != booking.StatusApproved {
			continue
		}
		other, err := booking.NewRentalPeriod(snap.PickupAt, snap.ReturnAt)
		if err != nil {
			return false, err
		}
		if period.Overlaps(other) {
			return true, nil
		}
	}
	return false, nil
}

type fakeVehicleRepo struct {
	state *FakeState
}

func (r *fakeVehicleRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status vehicle.Status) error {
	snap, ok := r.state.Vehicles[id]
	if !ok {
		return infra.WrapRepoErr("vehicle not found", nil, infra.KindNotFound)
	}
	snap.Status = status
	return nil
}

func (r *fakeVehicleRepo) AcquireLock(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.state.LockedVehicles = append(r.state.LockedVehicles, id)
	return nil
}

type fakeLoyaltyRepo struct {
	state *FakeState
}

func (r *fakeLoyaltyRepo) EnsureAccount(_ context.Context, _ db.DBTX, userID uuid.UUID, _ time.Time) (uuid.UUID, error) {
	if snap, ok := r.state.LoyaltyAccounts[userID]; ok {
		return snap.ID, nil
	}
	snap := &shared.LoyaltyAccountSnapshot{
		ID:     uuid.New(),
		UserID: userID,
		Points: 0,
		Tier:   loyalty.TierBronze,
	}
	r.state.LoyaltyAccounts[userID] = snap
	return snap.ID, nil
}

func (r *fakeLoyaltyRepo) IncrementPoints(_ context.Context, _ db.DBTX, accountID uuid.UUID, delta int64, _ time.Time) (int64, error) {
	for _, snap := range r.state.LoyaltyAccounts {
		if snap.ID == accountID {
			next := snap.Points + delta
			if next < 0 {
				return 0, infra.WrapRepoErr("point balance overdraw", nil, infra.KindConflict)
			}
			snap.Points = next
			return next, nil
		}
	}
	return 0, infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
}

func (r *fakeLoyaltyRepo) SetTier(_ context.Context, _ db.DBTX, accountID uuid.UUID, tier loyalty.Tier) error {
	for _, snap := range r.state.LoyaltyAccounts {
		if snap.ID == accountID {
			snap.Tier = tier
			return nil
		}
	}
	return infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
}

func (r *fakeLoyaltyRepo) AppendTransaction(_ context.Context, _ db.DBTX, tx *loyalty.Transaction) error {
	r.state.LoyaltyLedger = append(r.state.LoyaltyLedger, tx)
	return nil
}

type fakeNotificationRepo struct {
	state *FakeState
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, bookingID uuid.UUID, payload []byte, runAt time.Time) error {
	for _, job := range r.state.Jobs {
		if job.BookingID == bookingID && job.Topic == topic {
			return nil
		}
	}
	r.state.Jobs = append(r.state.Jobs, FakeJob{
		Kind:      kind,
		Topic:     topic,
		BookingID: bookingID,
		Payload:   payload,
		RunAt:     runAt,
	})
	return nil
}

func (r *fakeNotificationRepo) ClaimPending(_ context.Context, _ db.DBTX, _ int, _ time.Time) ([]shared.NotificationJob, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkSent(_ context.Context, _ db.DBTX, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (r *fakeNotificationRepo) MarkFailed(_ context.Context, _ db.DBTX, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (r *fakeNotificationRepo) FindDueReminders(_ context.Context, _ db.DBTX, _ time.Time, _ time.Duration) ([]shared.ReminderCandidate, error) {
	return nil, nil
}
