package response

import (
	"time"

	"car-rental-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoyaltyAccountResponse struct {
	UserID    uuid.UUID `json:"userId"`
	Points    int64     `json:"points"`
	Tier      string    `json:"tier"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoyaltyTransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	Points    int64     `json:"points"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromLoyaltyAccountView(rm *queries.LoyaltyAccountView) *LoyaltyAccountResponse {
	return &LoyaltyAccountResponse{
		UserID:    rm.UserID,
		Points:    rm.Points,
		Tier:      rm.Tier,
		UpdatedAt: rm.UpdatedAt,
	}
}

func FromLoyaltyTransactionView(rm *queries.LoyaltyTransactionView) *LoyaltyTransactionResponse {
	return &LoyaltyTransactionResponse{
		ID:        rm.ID,
		Points:    rm.Points,
		Type:      rm.Type,
		Reason:    rm.Reason,
		CreatedAt: rm.CreatedAt,
	}
}
