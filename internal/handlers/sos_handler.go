package handlers

import (
	"net/http"

	"ambudispatch/internal/middleware"
	"ambudispatch/internal/models"
	"ambudispatch/internal/services"
	"ambudispatch/internal/utils"

	"github.com/gin-gonic/gin"
)

type SOSHandler struct {
	sosService services.SOSService
}

func NewSOSHandler(sosService services.SOSService) *SOSHandler {
	return &SOSHandler{
		sosService: sosService,
	}
}

// Activate creates a new SOS event. Authenticated callers (identified by the
// gateway) are dispatched immediately.
func (h *SOSHandler) Activate(c *gin.Context) {
	var request models.SOSActivateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	userID := middleware.UserIDFromContext(c)

	event, err := h.sosService.Activate(c.Request.Context(), &request, userID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "SOS_ACTIVATION_FAILED", "Failed to activate SOS: "+err.Error())
		return
	}

	utils.CreatedResponse(c, "SOS activated", event)
}

// SendOTP sends a verification code to the given phone for an anonymous SOS.
func (h *SOSHandler) SendOTP(c *gin.Context) {
	var request models.SOSSendOTPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.sosService.SendVerification(c.Request.Context(), c.Param("sos_id"), request.Phone)
	if err != nil {
		h.respondSOSError(c, err)
		return
	}

	utils.SuccessResponse(c, result.Message, result)
}

// Verify checks the OTP and dispatches the SOS on success.
func (h *SOSHandler) Verify(c *gin.Context) {
	var request models.SOSVerifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	event, err := h.sosService.Verify(c.Request.Context(), c.Param("sos_id"), request.Phone, request.OTPCode)
	if err != nil {
		h.respondSOSError(c, err)
		return
	}

	utils.SuccessResponse(c, "SOS verified and dispatched", event)
}

// GetStatus returns the full SOS event record.
func (h *SOSHandler) GetStatus(c *gin.Context) {
	event, err := h.sosService.GetStatus(c.Request.Context(), c.Param("sos_id"))
	if err != nil {
		h.respondSOSError(c, err)
		return
	}

	utils.SuccessResponse(c, "SOS status retrieved", event)
}

// Cancel moves a non-terminal SOS to cancelled and frees its ambulance.
func (h *SOSHandler) Cancel(c *gin.Context) {
	var request models.SOSCancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
	}

	event, err := h.sosService.Cancel(c.Request.Context(), c.Param("sos_id"), request.Reason)
	if err != nil {
		h.respondSOSError(c, err)
		return
	}

	utils.SuccessResponse(c, "SOS cancelled", event)
}

// respondSOSError maps lifecycle errors onto the response envelope: unknown
// ids are 404, illegal transitions 409, rejected OTPs 400, everything else
// an opaque 500.
func (h *SOSHandler) respondSOSError(c *gin.Context, err error) {
	switch {
	case err == models.ErrNotFound:
		utils.NotFoundResponse(c, "SOS event")
	case models.IsStateConflict(err):
		utils.ConflictResponse(c, err.Error())
	case models.IsOTPError(err):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
