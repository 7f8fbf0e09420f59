package handlers

import (
	"ambudispatch/internal/models"
	"ambudispatch/internal/services"
	"ambudispatch/internal/utils"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService services.FleetService
}

func NewFleetHandler(fleetService services.FleetService) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
	}
}

// GetTripAmbulance resolves which ambulance is currently assigned to an SOS
// or booking id.
func (h *FleetHandler) GetTripAmbulance(c *gin.Context) {
	ambulance, err := h.fleetService.GetAssignmentForTrip(c.Request.Context(), c.Param("trip_id"))
	if err != nil {
		if err == models.ErrNotFound {
			utils.NotFoundResponse(c, "Assigned ambulance")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Assigned ambulance retrieved", ambulance)
}
