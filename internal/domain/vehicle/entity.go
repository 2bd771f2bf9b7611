package vehicle

import (
	"strings"

	"car-rental-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidStatus    = errs.New("invalid vehicle status")
	ErrNonPositiveRate  = errs.New("daily rate must be positive")
	ErrInvalidVehicleID = errs.New("invalid vehicle id")
)

type Status string

const (
	StatusAvailable    Status = "available"
	StatusReserved     Status = "reserved"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
)

func NewStatus(value string) (Status, error) {
	switch Status(strings.ToLower(value)) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusReserved:
		return StatusReserved, nil
	case StatusMaintenance:
		return StatusMaintenance, nil
	case StatusOutOfService:
		return StatusOutOfService, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

// IsBookable reports whether the operational status allows new bookings.
// Reserved is still bookable for non-overlapping periods; only shop states block.
func (s Status) IsBookable() bool {
	return s != StatusMaintenance && s != StatusOutOfService
}

// Vehicle is the booking core's view of a catalog vehicle: identity, rate
// and operational status. The full catalog record is owned elsewhere.
type Vehicle struct {
	id        uuid.UUID
	dailyRate decimal.Decimal
	status    Status
}

func NewVehicle(id uuid.UUID, dailyRate decimal.Decimal, status Status) (*Vehicle, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidVehicleID
	}
	if !dailyRate.IsPositive() {
		return nil, ErrNonPositiveRate
	}
	return &Vehicle{id: id, dailyRate: dailyRate, status: status}, nil
}

func (v *Vehicle) ID() uuid.UUID              { return v.id }
func (v *Vehicle) DailyRate() decimal.Decimal { return v.dailyRate }
func (v *Vehicle) Status() Status             { return v.status }

func (v *Vehicle) IsBookable() bool {
	return v.status.IsBookable()
}
