package commands

import (
	"context"
	"fmt"
	"time"

	"car-rental-backend/internal/domain/booking"
	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/domain/user"
	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/infra"
	"car-rental-backend/internal/pkg/clock"
	"car-rental-backend/internal/pkg/errs"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrVehicleNotFound         = errs.New("vehicle not found")
	ErrUserNotFound            = errs.New("user not found")
	ErrVehicleUnavailable      = errs.New("vehicle is not available for the requested period")
	ErrDomainValidation        = errs.New("validation failed")
	ErrInvalidOperation        = errs.New("operation not allowed in current booking state")
	ErrForbiddenBookingAccess  = errs.New("booking belongs to another user")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// Earned points per billable rental day.
const pointsPerDay = 10

type CreateBookingInput struct {
	UserID         uuid.UUID
	VehicleID      uuid.UUID
	PickupAt       time.Time
	ReturnAt       time.Time
	PaymentMethod  string
	PickupLocation string
	ReturnLocation string
	Notes          string
}

type ExtendBookingInput struct {
	BookingID   uuid.UUID
	NewReturnAt time.Time
	ActorID     uuid.UUID
	ActorRole   user.Role
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (uuid.UUID, error)
	// UpdateStatus drives the admin status endpoint. Transitions are gated
	// by the status transition table; approval, cancellation and completion
	// run their full side effects rather than a bare column write.
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, targetStatus string) error
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role) error
	// ExtendBooking pushes the return date out and returns the additional
	// charge that was added to the booking total.
	ExtendBooking(ctx context.Context, input ExtendBookingInput) (decimal.Decimal, error)
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	factory *booking.Factory
	pricer  booking.PriceCalculator
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, pricer booking.PriceCalculator) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		clock:   clk,
		factory: booking.NewFactory(clk, pricer),
		pricer:  pricer,
	}
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, input CreateBookingInput) (uuid.UUID, error) {
	paymentMethod, err := booking.NewPaymentMethod(input.PaymentMethod)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}
	period, err := booking.NewRentalPeriod(input.PickupAt, input.ReturnAt)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	var bookingID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		usr, err := tx.Reads().UserByID(ctx, input.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Serialize the availability check and insert per vehicle for the
		// rest of the transaction.
		if err := tx.Vehicles().AcquireLock(ctx, tx.DB(), input.VehicleID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		vehSnap, err := tx.Reads().VehicleByID(ctx, input.VehicleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrVehicleNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		veh, err := vehicle.NewVehicle(vehSnap.ID, vehSnap.DailyRate, vehSnap.Status)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		if !veh.IsBookable() {
			return ErrVehicleUnavailable
		}

		overlaps, err := tx.Bookings().HasOverlap(ctx, tx.DB(), input.VehicleID, period, nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlaps {
			return ErrVehicleUnavailable
		}

		tier, err := loyaltyTierInTx(ctx, tx, input.UserID)
		if err != nil {
			return err
		}

		b, err := uc.factory.NewBooking(
			veh, input.UserID, period, tier, paymentMethod,
			input.PickupLocation, input.ReturnLocation, input.Notes,
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), b)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		bookingID = id

		if err := tx.Vehicles().UpdateStatus(ctx, tx.DB(), veh.ID(), vehicle.StatusReserved); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		days := period.Days()
		reason := fmt.Sprintf("Booking %s - %d days rental", id, days)
		if err := addPointsInTx(ctx, tx, uc.clock, input.UserID, int64(days*pointsPerDay), reason); err != nil {
			return err
		}

		return uc.enqueueNotification(ctx, tx, TopicBookingConfirmation, id, usr, vehSnap, period.PickupAt(), period.ReturnAt())
	})
	if err != nil {
		return uuid.Nil, err
	}
	return bookingID, nil
}

func (uc *bookingUseCaseImpl) UpdateStatus(ctx context.Context, bookingID uuid.UUID, targetStatus string) error {
	target, err := booking.NewStatus(targetStatus)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, snap, err := bookingInTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		switch target {
		case booking.StatusApproved:
			err = b.Approve()
		case booking.StatusCancelled:
			err = b.Cancel()
		case booking.StatusCompleted:
			err = b.Complete()
		default:
			err = b.AssignStatus(target)
		}
		if err != nil {
			return errs.Mark(err, ErrInvalidOperation)
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, b.Status(), b.PaymentStatus()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Approval pins the vehicle; cancellation and completion release it.
		switch target {
		case booking.StatusApproved:
			if err := tx.Vehicles().UpdateStatus(ctx, tx.DB(), snap.VehicleID, vehicle.StatusReserved); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		case booking.StatusCancelled, booking.StatusCompleted:
			if err := tx.Vehicles().UpdateStatus(ctx, tx.DB(), snap.VehicleID, vehicle.StatusAvailable); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		var topic string
		switch target {
		case booking.StatusApproved:
			topic = TopicBookingApproval
		case booking.StatusCancelled:
			topic = TopicBookingCancellation
		default:
			return nil
		}

		usr, vehSnap, err := participantsInTx(ctx, tx, snap)
		if err != nil {
			return err
		}
		return uc.enqueueNotification(ctx, tx, topic, bookingID, usr, vehSnap, snap.PickupAt, snap.ReturnAt)
	})
}

func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, actorRole user.Role) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, snap, err := bookingInTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !actorRole.AtLeast(user.RoleManager) && snap.UserID != actorID {
			return ErrForbiddenBookingAccess
		}

		if err := b.Cancel(); err != nil {
			return errs.Mark(err, ErrInvalidOperation)
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, b.Status(), b.PaymentStatus()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Vehicles().UpdateStatus(ctx, tx.DB(), snap.VehicleID, vehicle.StatusAvailable); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Earned points survive cancellation. The ledger is append-only and
		// nothing in the cancellation flow writes a compensating entry.

		usr, vehSnap, err := participantsInTx(ctx, tx, snap)
		if err != nil {
			return err
		}
		return uc.enqueueNotification(ctx, tx, TopicBookingCancellation, bookingID, usr, vehSnap, snap.PickupAt, snap.ReturnAt)
	})
}

func (uc *bookingUseCaseImpl) ExtendBooking(ctx context.Context, input ExtendBookingInput) (decimal.Decimal, error) {
	var charge decimal.Decimal
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, snap, err := bookingInTx(ctx, tx, input.BookingID)
		if err != nil {
			return err
		}
		if !input.ActorRole.AtLeast(user.RoleManager) && snap.UserID != input.ActorID {
			return ErrForbiddenBookingAccess
		}
		if b.Status().IsTerminal() {
			return errs.Mark(booking.ErrNotExtendable, ErrInvalidOperation)
		}

		if err := tx.Vehicles().AcquireLock(ctx, tx.DB(), snap.VehicleID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		originalDays := b.Period().Days()
		newPeriod, err := b.Period().ExtendTo(input.NewReturnAt)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		newDays := newPeriod.Days()

		excludeID := input.BookingID
		overlaps, err := tx.Bookings().HasOverlap(ctx, tx.DB(), snap.VehicleID, newPeriod, &excludeID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlaps {
			return ErrVehicleUnavailable
		}

		vehSnap, err := tx.Reads().VehicleByID(ctx, snap.VehicleID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrVehicleNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		tier, err := loyaltyTierInTx(ctx, tx, snap.UserID)
		if err != nil {
			return err
		}

		charge = uc.pricer.ExtensionCharge(vehSnap.DailyRate, originalDays, newDays, b.Total(), tier)
		if err := b.ExtendTo(input.NewReturnAt, charge); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		if err := tx.Bookings().UpdateSchedule(ctx, tx.DB(), input.BookingID, b.Period().ReturnAt(), b.Total()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		additionalDays := newDays - originalDays
		if additionalDays > 0 {
			reason := fmt.Sprintf("Booking %s extension - %d additional days", input.BookingID, additionalDays)
			if err := addPointsInTx(ctx, tx, uc.clock, snap.UserID, int64(additionalDays*pointsPerDay), reason); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return charge, nil
}

// bookingInTx loads a booking snapshot and rehydrates the aggregate.
func bookingInTx(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, *shared.BookingSnapshot, error) {
	snap, err := tx.Reads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	period, err := booking.NewRentalPeriod(snap.PickupAt, snap.ReturnAt)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	b := booking.ReconstructBooking(
		snap.ID, snap.UserID, snap.VehicleID,
		period, snap.TotalPrice,
		snap.Status, snap.PaymentMethod, snap.PaymentStatus,
		snap.PickupLocation, snap.ReturnLocation, snap.Notes,
		snap.BookedAt, snap.CreatedAt, snap.UpdatedAt,
	)
	return b, snap, nil
}

// loyaltyTierInTx resolves the user's pricing tier. Users without an
// account price at the bronze tier.
func loyaltyTierInTx(ctx context.Context, tx shared.Tx, userID uuid.UUID) (loyalty.Tier, error) {
	acct, err := tx.Reads().LoyaltyAccountByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return loyalty.TierBronze, nil
		}
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return acct.Tier, nil
}

func participantsInTx(ctx context.Context, tx shared.Tx, snap *shared.BookingSnapshot) (*shared.UserSnapshot, *shared.VehicleSnapshot, error) {
	usr, err := tx.Reads().UserByID(ctx, snap.UserID)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	vehSnap, err := tx.Reads().VehicleByID(ctx, snap.VehicleID)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return usr, vehSnap, nil
}

func (uc *bookingUseCaseImpl) enqueueNotification(
	ctx context.Context,
	tx shared.Tx,
	topic string,
	bookingID uuid.UUID,
	usr *shared.UserSnapshot,
	veh *shared.VehicleSnapshot,
	pickupAt, returnAt time.Time,
) error {
	payload, err := marshalNotificationPayload(bookingID, usr, veh, pickupAt, returnAt)
	if err != nil {
		return errs.Wrap(err, "marshal notification payload")
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), notificationKindEmail, topic, bookingID, payload, uc.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
