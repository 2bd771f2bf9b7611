package booking

import (
	"time"

	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus        = errs.New("invalid booking status")
	ErrInvalidPaymentMethod = errs.New("invalid payment method")
	ErrInvalidPeriod        = errs.New("return date must be after pickup date")
	ErrPastPickup           = errs.New("pickup date cannot be in the past")
	ErrReturnNotExtended    = errs.New("new return date must be after current return date")
	ErrIllegalTransition    = errs.New("illegal booking status transition")
	ErrNotCancellable       = errs.New("booking cannot be cancelled from its current status")
	ErrNotExtendable        = errs.New("booking cannot be extended from its current status")
	ErrNegativeTotal        = errs.New("booking total cannot be negative")
)

type Booking struct {
	id             uuid.UUID
	userID         uuid.UUID
	vehicleID      uuid.UUID
	period         RentalPeriod
	total          decimal.Decimal
	status         Status
	paymentMethod  PaymentMethod
	paymentStatus  PaymentStatus
	pickupLocation string
	returnLocation string
	notes          string
	bookedAt       time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func ReconstructBooking(
	id, userID, vehicleID uuid.UUID,
	period RentalPeriod,
	total decimal.Decimal,
	status Status,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	pickupLocation, returnLocation, notes string,
	bookedAt, createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		userID:         userID,
		vehicleID:      vehicleID,
		period:         period,
		total:          total,
		status:         status,
		paymentMethod:  paymentMethod,
		paymentStatus:  paymentStatus,
		pickupLocation: pickupLocation,
		returnLocation: returnLocation,
		notes:          notes,
		bookedAt:       bookedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) VehicleID() uuid.UUID         { return b.vehicleID }
func (b *Booking) Period() RentalPeriod         { return b.period }
func (b *Booking) Total() decimal.Decimal       { return b.total }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PickupLocation() string       { return b.pickupLocation }
func (b *Booking) ReturnLocation() string       { return b.returnLocation }
func (b *Booking) Notes() string                { return b.notes }
func (b *Booking) BookedAt() time.Time          { return b.bookedAt }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// Approve moves the booking to Approved. PayNow bookings settle immediately.
func (b *Booking) Approve() error {
	if !CanTransition(b.status, StatusApproved) {
		return ErrIllegalTransition
	}
	b.status = StatusApproved
	if b.paymentMethod == PayNow {
		b.paymentStatus = PaymentCompleted
	}
	return nil
}

// Cancel is legal only from Requested or Approved. A completed payment is
// flipped to Refunded. Cancellation is a status, never a row deletion.
func (b *Booking) Cancel() error {
	if b.status != StatusRequested && b.status != StatusApproved {
		return ErrNotCancellable
	}
	b.status = StatusCancelled
	if b.paymentStatus == PaymentCompleted {
		b.paymentStatus = PaymentRefunded
	}
	return nil
}

// Complete forces the payment status to Completed regardless of prior state.
func (b *Booking) Complete() error {
	if !CanTransition(b.status, StatusCompleted) {
		return ErrIllegalTransition
	}
	b.status = StatusCompleted
	b.paymentStatus = PaymentCompleted
	return nil
}

// AssignStatus performs the bare status write for targets whose transition
// carries no coded side effects (legacy admin passthrough). The transition
// table still gates reachability.
func (b *Booking) AssignStatus(target Status) error {
	if !CanTransition(b.status, target) {
		return ErrIllegalTransition
	}
	b.status = target
	return nil
}

// ExtendTo pushes the return date out and adds the already-computed charge
// to the stored total. Only live bookings can be extended.
func (b *Booking) ExtendTo(newReturnAt time.Time, additionalCharge decimal.Decimal) error {
	if b.status.IsTerminal() {
		return ErrNotExtendable
	}
	period, err := b.period.ExtendTo(newReturnAt)
	if err != nil {
		return err
	}
	newTotal := b.total.Add(additionalCharge)
	if newTotal.IsNegative() {
		return ErrNegativeTotal
	}
	b.period = period
	b.total = newTotal
	return nil
}
