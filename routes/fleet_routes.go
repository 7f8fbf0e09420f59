package routes

import (
	"ambudispatch/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupFleetRoutes sets up routes for fleet lookups
func SetupFleetRoutes(r *gin.RouterGroup, fleetHandler *handlers.FleetHandler) {
	fleet := r.Group("/fleet")
	{
		fleet.GET("/trips/:trip_id/ambulance", fleetHandler.GetTripAmbulance)
	}
}
