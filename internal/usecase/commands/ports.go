package commands

import (
	"encoding/json"
	"time"

	"car-rental-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

// Notification job kinds/topics consumed by the dispatcher worker.
const (
	notificationKindEmail = "email"

	TopicBookingConfirmation = "booking_confirmation"
	TopicBookingApproval     = "booking_approval"
	TopicBookingCancellation = "booking_cancellation"
	TopicPickupReminder      = "pickup_reminder"
	TopicReturnReminder      = "return_reminder"
)

// notificationPayload carries booking, user and vehicle data so the
// dispatcher never reads back into booking tables.
type notificationPayload struct {
	BookingID    uuid.UUID `json:"booking_id"`
	UserEmail    string    `json:"user_email"`
	UserName     string    `json:"user_name"`
	VehicleMake  string    `json:"vehicle_make"`
	VehicleModel string    `json:"vehicle_model"`
	PickupAt     time.Time `json:"pickup_at"`
	ReturnAt     time.Time `json:"return_at"`
}

func marshalNotificationPayload(bookingID uuid.UUID, user *shared.UserSnapshot, veh *shared.VehicleSnapshot, pickupAt, returnAt time.Time) ([]byte, error) {
	return json.Marshal(notificationPayload{
		BookingID:    bookingID,
		UserEmail:    user.Email,
		UserName:     user.FirstName + " " + user.LastName,
		VehicleMake:  veh.Make,
		VehicleModel: veh.Model,
		PickupAt:     pickupAt,
		ReturnAt:     returnAt,
	})
}
