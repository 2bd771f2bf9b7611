//go:build unit || e2e

package builder

import (
	"time"

	dombooking "car-rental-backend/internal/domain/booking"
	domloyalty "car-rental-backend/internal/domain/loyalty"
	domvehicle "car-rental-backend/internal/domain/vehicle"
	reqdto "car-rental-backend/internal/handler/dto/request"
	"car-rental-backend/internal/pkg/clock"
	"car-rental-backend/internal/usecase/queries"
	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	UserEmail      string
	UserName       string
	VehicleID      uuid.UUID
	VehicleMake    string
	VehicleModel   string
	LicensePlate   string
	DailyRate      decimal.Decimal
	VehicleStatus  domvehicle.Status
	PickupAt       time.Time
	ReturnAt       time.Time
	TotalPrice     decimal.Decimal
	Status         dombooking.Status
	PaymentMethod  dombooking.PaymentMethod
	PaymentStatus  dombooking.PaymentStatus
	Tier           domloyalty.Tier
	PickupLocation string
	ReturnLocation string
	Notes          string
	Now            time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		UserEmail:      "customer@example.com",
		UserName:       "Test Customer",
		VehicleID:      uuid.New(),
		VehicleMake:    "Toyota",
		VehicleModel:   "Corolla",
		LicensePlate:   "ABC-1234",
		DailyRate:      decimal.NewFromInt(50),
		VehicleStatus:  domvehicle.StatusAvailable,
		PickupAt:       now.Add(48 * time.Hour),
		ReturnAt:       now.Add(96 * time.Hour),
		TotalPrice:     decimal.NewFromInt(100),
		Status:         dombooking.StatusRequested,
		PaymentMethod:  dombooking.PayAtPickup,
		PaymentStatus:  dombooking.PaymentPending,
		Tier:           domloyalty.TierBronze,
		PickupLocation: "Airport",
		ReturnLocation: "Airport",
		Notes:          "",
		Now:            now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildVehicle() (*domvehicle.Vehicle, error) {
	return domvehicle.NewVehicle(b.VehicleID, b.DailyRate, b.VehicleStatus)
}

func (b *BookingBuilder) BuildPeriod() (dombooking.RentalPeriod, error) {
	return dombooking.NewRentalPeriod(b.PickupAt, b.ReturnAt)
}

// BuildDomain constructs a fresh booking through the factory, pricing it
// from the builder's rate, period and tier.
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	veh, err := b.BuildVehicle()
	if err != nil {
		return nil, err
	}
	period, err := b.BuildPeriod()
	if err != nil {
		return nil, err
	}
	factory := dombooking.NewFactory(clock.NewMockClock(b.Now), dombooking.NewStandardPriceCalculator())
	return factory.NewBooking(veh, b.UserID, period, b.Tier, b.PaymentMethod, b.PickupLocation, b.ReturnLocation, b.Notes)
}

// BuildReconstructed rehydrates a booking in the builder's exact state,
// bypassing the factory.
func (b *BookingBuilder) BuildReconstructed() (*dombooking.Booking, error) {
	period, err := b.BuildPeriod()
	if err != nil {
		return nil, err
	}
	return dombooking.ReconstructBooking(
		b.ID, b.UserID, b.VehicleID,
		period, b.TotalPrice,
		b.Status, b.PaymentMethod, b.PaymentStatus,
		b.PickupLocation, b.ReturnLocation, b.Notes,
		b.Now, b.Now, b.Now,
	), nil
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		VehicleID:      b.VehicleID,
		PickupAt:       b.PickupAt,
		ReturnAt:       b.ReturnAt,
		PaymentMethod:  b.PaymentMethod.String(),
		PickupLocation: b.PickupLocation,
		ReturnLocation: b.ReturnLocation,
		Notes:          b.Notes,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:            b.ID,
		UserID:        b.UserID,
		UserEmail:     b.UserEmail,
		UserName:      b.UserName,
		VehicleID:     b.VehicleID,
		VehicleMake:   b.VehicleMake,
		VehicleModel:  b.VehicleModel,
		LicensePlate:  b.LicensePlate,
		PickupAt:      b.PickupAt,
		ReturnAt:      b.ReturnAt,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status.String(),
		PaymentMethod: b.PaymentMethod.String(),
		PaymentStatus: b.PaymentStatus.String(),
		BookedAt:      b.Now,
		CreatedAt:     b.Now,
		UpdatedAt:     b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           b.ID,
		VehicleID:    b.VehicleID,
		VehicleMake:  b.VehicleMake,
		VehicleModel: b.VehicleModel,
		PickupAt:     b.PickupAt,
		ReturnAt:     b.ReturnAt,
		TotalPrice:   b.TotalPrice,
		Status:       b.Status.String(),
		BookedAt:     b.Now,
	}
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:             b.ID,
		UserID:         b.UserID,
		VehicleID:      b.VehicleID,
		PickupAt:       b.PickupAt,
		ReturnAt:       b.ReturnAt,
		TotalPrice:     b.TotalPrice,
		Status:         b.Status,
		PaymentMethod:  b.PaymentMethod,
		PaymentStatus:  b.PaymentStatus,
		PickupLocation: b.PickupLocation,
		ReturnLocation: b.ReturnLocation,
		Notes:          b.Notes,
		BookedAt:       b.Now,
		CreatedAt:      b.Now,
		UpdatedAt:      b.Now,
	}
}

func (b *BookingBuilder) BuildVehicleSnapshot() *shared.VehicleSnapshot {
	return &shared.VehicleSnapshot{
		ID:        b.VehicleID,
		Make:      b.VehicleMake,
		Model:     b.VehicleModel,
		DailyRate: b.DailyRate,
		Status:    b.VehicleStatus,
	}
}

func (b *BookingBuilder) BuildUserSnapshot() *shared.UserSnapshot {
	return &shared.UserSnapshot{
		ID:        b.UserID,
		Email:     b.UserEmail,
		FirstName: "Test",
		LastName:  "Customer",
	}
}
