package booking

import (
	"time"
)

// RentalPeriod is the half-open-in-name-only pickup/return pair. Both ends
// are normalized to UTC on construction; pickup must precede return.
type RentalPeriod struct {
	pickupAt time.Time
	returnAt time.Time
}

func NewRentalPeriod(pickupAt, returnAt time.Time) (RentalPeriod, error) {
	p := pickupAt.UTC()
	r := returnAt.UTC()
	if !p.Before(r) {
		return RentalPeriod{}, ErrInvalidPeriod
	}
	return RentalPeriod{pickupAt: p, returnAt: r}, nil
}

func (rp RentalPeriod) PickupAt() time.Time {
	return rp.pickupAt
}

func (rp RentalPeriod) ReturnAt() time.Time {
	return rp.returnAt
}

// Days is the billable day count: the ceiling of the rental duration in
// calendar days, with a floor of one (sub-day rentals bill as a full day).
func (rp RentalPeriod) Days() int {
	d := rp.returnAt.Sub(rp.pickupAt)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ExtendTo returns the period with a later return date. The new return must
// be strictly after the current one.
func (rp RentalPeriod) ExtendTo(newReturnAt time.Time) (RentalPeriod, error) {
	r := newReturnAt.UTC()
	if !r.After(rp.returnAt) {
		return RentalPeriod{}, ErrReturnNotExtended
	}
	return RentalPeriod{pickupAt: rp.pickupAt, returnAt: r}, nil
}

// Overlaps uses inclusive bounds on both ends: a booking returning the same
// day another picks up is a conflict (no automatic same-day handoff).
func (rp RentalPeriod) Overlaps(other RentalPeriod) bool {
	return !rp.pickupAt.After(other.returnAt) && !other.pickupAt.After(rp.returnAt)
}
