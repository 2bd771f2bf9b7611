package api

import (
	"errors"
	"net/http"

	resdto "car-rental-backend/internal/handler/dto/response"
	"car-rental-backend/internal/handler/httperr"
	"car-rental-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VehicleHandler struct {
	queries queries.VehicleQueries
}

func NewVehicleHandler(qs queries.VehicleQueries) *VehicleHandler {
	return &VehicleHandler{queries: qs}
}

// @Summary List available vehicles
// @Description Vehicles not pulled for maintenance, bookable for some period
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.VehicleResponse
// @Failure 401 {object} map[string]string
// @Router /vehicles [get]
func (h *VehicleHandler) ListAvailableVehicles(c *gin.Context) {
	views, err := h.queries.ListAvailable(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.VehicleResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromVehicleView(view)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get vehicle
// @Description Get vehicle by ID
// @Tags vehicles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Success 200 {object} resdto.VehicleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid vehicle ID", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrVehicleNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Vehicle not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVehicleView(view))
}
