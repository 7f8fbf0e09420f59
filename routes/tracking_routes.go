package routes

import (
	"ambudispatch/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTrackingRoutes sets up routes for live ambulance tracking
func SetupTrackingRoutes(r *gin.RouterGroup, trackingHandler *handlers.TrackingHandler) {
	tracking := r.Group("/tracking")
	{
		tracking.POST("/:trip_id/location", trackingHandler.PushLocation)
		tracking.GET("/:trip_id/location", trackingHandler.GetLocation)
		tracking.GET("/:trip_id/ws", trackingHandler.Stream)

		// Gated on development mode inside the handler.
		tracking.POST("/:trip_id/simulate", trackingHandler.Simulate)
	}
}
