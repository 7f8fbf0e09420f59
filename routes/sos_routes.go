package routes

import (
	"ambudispatch/internal/handlers"
	"ambudispatch/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSOSRoutes sets up routes for the emergency SOS lifecycle
func SetupSOSRoutes(r *gin.RouterGroup, sosHandler *handlers.SOSHandler) {
	sos := r.Group("/sos")
	sos.Use(middleware.OptionalIdentity())
	{
		sos.POST("/activate", sosHandler.Activate)
		sos.POST("/:sos_id/send-otp", sosHandler.SendOTP)
		sos.POST("/:sos_id/verify", sosHandler.Verify)
		sos.GET("/:sos_id/status", sosHandler.GetStatus)
		sos.POST("/:sos_id/cancel", sosHandler.Cancel)
	}
}
