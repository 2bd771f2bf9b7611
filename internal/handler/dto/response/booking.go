package response

import (
	"time"

	"car-rental-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	UserEmail      string    `json:"userEmail"`
	UserName       string    `json:"userName"`
	VehicleID      uuid.UUID `json:"vehicleId"`
	VehicleMake    string    `json:"vehicleMake"`
	VehicleModel   string    `json:"vehicleModel"`
	LicensePlate   string    `json:"licensePlate"`
	PickupAt       time.Time `json:"pickupAt"`
	ReturnAt       time.Time `json:"returnAt"`
	TotalPrice     string    `json:"totalPrice"`
	Status         string    `json:"status"`
	PaymentMethod  string    `json:"paymentMethod"`
	PaymentStatus  string    `json:"paymentStatus"`
	PickupLocation *string   `json:"pickupLocation,omitempty"`
	ReturnLocation *string   `json:"returnLocation,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	BookedAt       time.Time `json:"bookedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicleId"`
	VehicleMake  string    `json:"vehicleMake"`
	VehicleModel string    `json:"vehicleModel"`
	PickupAt     time.Time `json:"pickupAt"`
	ReturnAt     time.Time `json:"returnAt"`
	TotalPrice   string    `json:"totalPrice"`
	Status       string    `json:"status"`
	BookedAt     time.Time `json:"bookedAt"`
}

type BookingPageResponse struct {
	Items      []*BookingListResponse `json:"items"`
	TotalCount int64                  `json:"totalCount"`
	PageNumber int                    `json:"pageNumber"`
	PageSize   int                    `json:"pageSize"`
}

type CreateBookingResponse struct {
	ID uuid.UUID `json:"id"`
}

type ExtendBookingResponse struct {
	ID               uuid.UUID `json:"id"`
	AdditionalCharge string    `json:"additionalCharge"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:             rm.ID,
		UserID:         rm.UserID,
		UserEmail:      rm.UserEmail,
		UserName:       rm.UserName,
		VehicleID:      rm.VehicleID,
		VehicleMake:    rm.VehicleMake,
		VehicleModel:   rm.VehicleModel,
		LicensePlate:   rm.LicensePlate,
		PickupAt:       rm.PickupAt,
		ReturnAt:       rm.ReturnAt,
		TotalPrice:     rm.TotalPrice.StringFixed(2),
		Status:         rm.Status,
		PaymentMethod:  rm.PaymentMethod,
		PaymentStatus:  rm.PaymentStatus,
		PickupLocation: rm.PickupLocation,
		ReturnLocation: rm.ReturnLocation,
		Notes:          rm.Notes,
		BookedAt:       rm.BookedAt,
		CreatedAt:      rm.CreatedAt,
		UpdatedAt:      rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:           rm.ID,
		VehicleID:    rm.VehicleID,
		VehicleMake:  rm.VehicleMake,
		VehicleModel: rm.VehicleModel,
		PickupAt:     rm.PickupAt,
		ReturnAt:     rm.ReturnAt,
		TotalPrice:   rm.TotalPrice.StringFixed(2),
		Status:       rm.Status,
		BookedAt:     rm.BookedAt,
	}
}

func FromBookingPage(page *queries.BookingPage) *BookingPageResponse {
	items := make([]*BookingListResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = FromBookingListItem(item)
	}
	return &BookingPageResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}

func NewExtendBookingResponse(id uuid.UUID, charge decimal.Decimal) *ExtendBookingResponse {
	return &ExtendBookingResponse{
		ID:               id,
		AdditionalCharge: charge.StringFixed(2),
	}
}
