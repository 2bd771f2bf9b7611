package request

import (
	"github.com/google/uuid"
)

type AddPointsRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Points int64     `json:"points" binding:"required"`
	Reason string    `json:"reason" binding:"required"`
}
