package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID      uuid.UUID `json:"vehicle_id" binding:"required"`
	PickupAt       time.Time `json:"pickup_at" binding:"required"`
	ReturnAt       time.Time `json:"return_at" binding:"required"`
	PaymentMethod  string    `json:"payment_method" binding:"required"`
	PickupLocation string    `json:"pickup_location"`
	ReturnLocation string    `json:"return_location"`
	Notes          string    `json:"notes"`
}

type ExtendBookingRequest struct {
	NewReturnAt time.Time `json:"new_return_at" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
