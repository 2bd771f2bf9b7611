package booking

import (
	"car-rental-backend/internal/domain/loyalty"
	"car-rental-backend/internal/domain/vehicle"
	"car-rental-backend/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
}

func NewFactory(clk clock.Clock, priceCalculator PriceCalculator) *Factory {
	return &Factory{
		Clock:           clk,
		PriceCalculator: priceCalculator,
	}
}

// NewBooking prices and assembles a fresh booking in Requested state. The
// pickup date may be today but not earlier; comparison is on calendar days.
func (f *Factory) NewBooking(
	veh *vehicle.Vehicle,
	userID uuid.UUID,
	period RentalPeriod,
	tier loyalty.Tier,
	paymentMethod PaymentMethod,
	pickupLocation, returnLocation, notes string,
) (*Booking, error) {
	now := f.Clock.Now()
	if period.PickupAt().Before(clock.Today(f.Clock)) {
		return nil, ErrPastPickup
	}

	total := f.PriceCalculator.Quote(veh.DailyRate(), period.Days(), tier)
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}

	return &Booking{
		id:             uuid.New(),
		userID:         userID,
		vehicleID:      veh.ID(),
		period:         period,
		total:          total,
		status:         StatusRequested,
		paymentMethod:  paymentMethod,
		paymentStatus:  PaymentPending,
		pickupLocation: pickupLocation,
		returnLocation: returnLocation,
		notes:          notes,
		bookedAt:       now,
	}, nil
}
