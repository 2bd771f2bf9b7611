package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type BookingView struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	UserEmail      string          `json:"user_email"`
	UserName       string          `json:"user_name"`
	VehicleID      uuid.UUID       `json:"vehicle_id"`
	VehicleMake    string          `json:"vehicle_make"`
	VehicleModel   string          `json:"vehicle_model"`
	LicensePlate   string          `json:"license_plate"`
	PickupAt       time.Time       `json:"pickup_at"`
	ReturnAt       time.Time       `json:"return_at"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	PickupLocation *string         `json:"pickup_location,omitempty"`
	ReturnLocation *string         `json:"return_location,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	BookedAt       time.Time       `json:"booked_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID       `json:"id"`
	VehicleID    uuid.UUID       `json:"vehicle_id"`
	VehicleMake  string          `json:"vehicle_make"`
	VehicleModel string          `json:"vehicle_model"`
	PickupAt     time.Time       `json:"pickup_at"`
	ReturnAt     time.Time       `json:"return_at"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       string          `json:"status"`
	BookedAt     time.Time       `json:"booked_at"`
}

type BookingPage struct {
	Items      []*BookingListItem `json:"items"`
	TotalCount int64              `json:"total_count"`
	PageNumber int                `json:"page_number"`
	PageSize   int                `json:"page_size"`
}

type VehicleView struct {
	ID           uuid.UUID       `json:"id"`
	Make         string          `json:"make"`
	Model        string          `json:"model"`
	Year         int32           `json:"year"`
	LicensePlate string          `json:"license_plate"`
	DailyRate    decimal.Decimal `json:"daily_rate"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type LoyaltyAccountView struct {
	UserID    uuid.UUID `json:"user_id"`
	Points    int64     `json:"points"`
	Tier      string    `json:"tier"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoyaltyTransactionView struct {
	ID        uuid.UUID `json:"id"`
	Points    int64     `json:"points"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
