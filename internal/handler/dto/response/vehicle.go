package response

import (
	"time"

	"car-rental-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type VehicleResponse struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int32     `json:"year"`
	LicensePlate string    `json:"licensePlate"`
	DailyRate    string    `json:"dailyRate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromVehicleView(rm *queries.VehicleView) *VehicleResponse {
	return &VehicleResponse{
		ID:           rm.ID,
		Make:         rm.Make,
		Model:        rm.Model,
		Year:         rm.Year,
		LicensePlate: rm.LicensePlate,
		DailyRate:    rm.DailyRate.StringFixed(2),
		Status:       rm.Status,
		CreatedAt:    rm.CreatedAt,
		UpdatedAt:    rm.UpdatedAt,
	}
}
