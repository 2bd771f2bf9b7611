package api

import (
	"errors"
	"net/http"

	reqdto "car-rental-backend/internal/handler/dto/request"
	resdto "car-rental-backend/internal/handler/dto/response"
	"car-rental-backend/internal/handler/httperr"
	"car-rental-backend/internal/handler/middleware"
	"car-rental-backend/internal/usecase/commands"
	"car-rental-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	commands commands.LoyaltyCommands
	queries  queries.LoyaltyQueries
}

func NewLoyaltyHandler(cmds commands.LoyaltyCommands, qs queries.LoyaltyQueries) *LoyaltyHandler {
	return &LoyaltyHandler{
		commands: cmds,
		queries:  qs,
	}
}

// @Summary Get loyalty account
// @Description Current points balance and tier for the authenticated user
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.LoyaltyAccountResponse
// @Failure 401 {object} map[string]string
// @Router /loyalty/account [get]
func (h *LoyaltyHandler) GetAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingAuthContext, "Internal server error", nil)
		return
	}

	view, err := h.queries.GetAccount(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoyaltyAccountView(view))
}

// @Summary List loyalty transactions
// @Description Point ledger for the authenticated user, newest first
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LoyaltyTransactionResponse
// @Failure 401 {object} map[string]string
// @Router /loyalty/transactions [get]
func (h *LoyaltyHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingAuthContext, "Internal server error", nil)
		return
	}

	views, err := h.queries.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.LoyaltyTransactionResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromLoyaltyTransactionView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Adjust loyalty points
// @Description Manually award or redeem points for a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddPointsRequest true "Point adjustment"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/loyalty/points [post]
func (h *LoyaltyHandler) AddPoints(c *gin.Context) {
	var req reqdto.AddPointsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	if err := h.commands.AddPoints(c.Request.Context(), req.UserID, req.Points, req.Reason); err != nil {
		switch {
		case errors.Is(err, commands.ErrZeroPointDelta),
			errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid point adjustment", nil)
		case errors.Is(err, commands.ErrInsufficientPoints):
			httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient point balance", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
