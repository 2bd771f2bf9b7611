package shared

import (
	"context"
	"time"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Vehicles() VehicleRepository
	Loyalty() LoyaltyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	LoyaltyAccountByUserID(ctx context.Context, userID uuid.UUID) (*LoyaltyAccountSnapshot, error)
}

// Write-side snapshots keep commands off the read-side view types.
type VehicleSnapshot struct {
	ID        uuid.UUID
	Make      string
	Model     string
	DailyRate decimal.Decimal
	Status    vehicle.Status
}

type UserSnapshot struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

type BookingSnapshot struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	VehicleID      uuid.UUID
	PickupAt       time.Time
	ReturnAt       time.Time
	TotalPrice     decimal.Decimal
	Status         booking.Status
	PaymentMethod  booking.PaymentMethod
	PaymentStatus  booking.PaymentStatus
	PickupLocation string
	ReturnLocation string
	Notes          string
	BookedAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type LoyaltyAccountSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Points int64
	Tier   loyalty.Tier
}

type BookingRepository interface {
	Create(ctx context.Context, db db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status booking.Status, paymentStatus booking.PaymentStatus) error
	UpdateSchedule(ctx context.Context, db db.DBTX, id uuid.UUID, returnAt time.Time, total decimal.Decimal) error
	// HasOverlap reports whether any other Requested/Approved booking on the
	// vehicle overlaps the period, bounds inclusive.
	HasOverlap(ctx context.Context, db db.DBTX, vehicleID uuid.UUID, period booking.RentalPeriod, excludeBookingID *uuid.UUID) (bool, error)
}

type VehicleRepository interface {
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status vehicle.Status) error
	// AcquireLock serializes booking check-then-act per vehicle for the
	// remainder of the enclosing transaction.
	AcquireLock(ctx context.Context, db db.DBTX, id uuid.UUID) error
}

type LoyaltyRepository interface {
	// EnsureAccount creates the user's account if absent and returns its id.
	EnsureAccount(ctx context.Context, db db.DBTX, userID uuid.UUID, now time.Time) (uuid.UUID, error)
	// IncrementPoints applies the delta atomically and returns the new balance.
	IncrementPoints(ctx context.Context, db db.DBTX, accountID uuid.UUID, delta int64, now time.Time) (int64, error)
	SetTier(ctx context.Context, db db.DBTX, accountID uuid.UUID, tier loyalty.Tier) error
	AppendTransaction(ctx context.Context, db db.DBTX, tx *loyalty.Transaction) error
}

// NotificationJob is a claimed outbox row handed to the dispatcher.
type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	BookingID uuid.UUID
	Payload   []byte
	Attempts  int32
}

// ReminderCandidate is a live booking whose pickup or return falls inside
// the reminder window and which has no reminder job for that topic yet.
type ReminderCandidate struct {
	BookingID    uuid.UUID
	Topic        string
	UserEmail    string
	UserName     string
	VehicleMake  string
	VehicleModel string
	PickupAt     time.Time
	ReturnAt     time.Time
}

type NotificationRepository interface {
	// CreateJob enqueues an outbox row. One job per (booking, topic); a
	// duplicate enqueue is a no-op.
	CreateJob(ctx context.Context, db db.DBTX, kind, topic string, bookingID uuid.UUID, payload []byte, runAt time.Time) error
	// ClaimPending atomically moves up to limit due jobs to processing and
	// returns them. Rows claimed by a concurrent dispatcher are skipped.
	ClaimPending(ctx context.Context, db db.DBTX, limit int, now time.Time) ([]NotificationJob, error)
	MarkSent(ctx context.Context, db db.DBTX, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, db db.DBTX, id uuid.UUID, reason string, now time.Time) error
	// FindDueReminders returns bookings needing a pickup or return reminder
	// within the window starting at now.
	FindDueReminders(ctx context.Context, db db.DBTX, now time.Time, window time.Duration) ([]ReminderCandidate, error)
}
