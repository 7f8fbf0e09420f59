package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ambudispatch/internal/models"
	"ambudispatch/internal/repositories/interfaces"
	"ambudispatch/pkg/logger"
)

// TripMonitor is the slice of the live tracking hub the SOS lifecycle needs:
// cancelling an SOS must also halt any movement simulation for its trip.
type TripMonitor interface {
	StopSimulation(tripID string)
}

type SOSService interface {
	Activate(ctx context.Context, req *models.SOSActivateRequest, userID *string) (*models.SOSEvent, error)
	SendVerification(ctx context.Context, sosID, phone string) (*OTPResult, error)
	Verify(ctx context.Context, sosID, phone, code string) (*models.SOSEvent, error)
	GetStatus(ctx context.Context, sosID string) (*models.SOSEvent, error)
	Cancel(ctx context.Context, sosID, reason string) (*models.SOSEvent, error)
}

type sosService struct {
	sosRepo     interfaces.SOSRepository
	bookingRepo interfaces.BookingRepository
	users       interfaces.UserDirectory
	fleet       FleetService
	otp         OTPService
	monitor     TripMonitor
	logger      *logger.Logger
}

func NewSOSService(
	sosRepo interfaces.SOSRepository,
	bookingRepo interfaces.BookingRepository,
	users interfaces.UserDirectory,
	fleet FleetService,
	otp OTPService,
	monitor TripMonitor,
	log *logger.Logger,
) SOSService {
	return &sosService{
		sosRepo:     sosRepo,
		bookingRepo: bookingRepo,
		users:       users,
		fleet:       fleet,
		otp:         otp,
		monitor:     monitor,
		logger:      log,
	}
}

// Activate records a new SOS event. Authenticated callers are dispatched
// immediately; anonymous callers stay in initiated until OTP verification
// proves a callback number.
func (s *sosService) Activate(ctx context.Context, req *models.SOSActivateRequest, userID *string) (*models.SOSEvent, error) {
	status := models.SOSStatusInitiated
	if userID != nil {
		status = models.SOSStatusDispatched
	}

	event := &models.SOSEvent{
		UserID:    userID,
		Status:    status,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
	}
	if err := s.sosRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create SOS event: %w", err)
	}

	sosID := event.ID.Hex()
	s.logger.LogDispatchEvent(sosID, "sos_activated", map[string]interface{}{
		"authenticated": userID != nil,
	})

	if userID != nil {
		snapshot := s.assignAmbulance(ctx, sosID, req.Latitude, req.Longitude)
		if snapshot != nil {
			event.AssignedAmbulance = snapshot
			if err := s.sosRepo.Update(ctx, event.ID, map[string]interface{}{
				"assigned_ambulance": snapshot,
			}); err != nil {
				s.logger.WithError(err).WithSOSID(sosID).Error("Failed to persist ambulance assignment")
			}
		}
		s.recordBookingHistory(ctx, event)
	}

	return event, nil
}

// SendVerification issues an OTP to the given phone for an anonymous SOS.
func (s *sosService) SendVerification(ctx context.Context, sosID, phone string) (*OTPResult, error) {
	event, err := s.getEvent(ctx, sosID)
	if err != nil {
		return nil, err
	}

	switch event.Status {
	case models.SOSStatusInitiated, models.SOSStatusCountdown, models.SOSStatusOTPSent:
	default:
		return nil, &models.StateConflictError{Operation: "send OTP for", Current: event.Status}
	}

	result, err := s.otp.Send(ctx, phone, otpPurpose(sosID))
	if err != nil {
		return nil, err
	}

	if result.Success {
		if err := s.sosRepo.Update(ctx, event.ID, map[string]interface{}{
			"status": models.SOSStatusOTPSent,
		}); err != nil {
			return nil, err
		}
		s.logger.LogDispatchEvent(sosID, "otp_sent", nil)
	}

	return result, nil
}

// Verify checks the OTP and, on success, marks the SOS dispatched and
// attempts an ambulance assignment. A wrong code changes nothing; the caller
// may retry while the stored code lives.
func (s *sosService) Verify(ctx context.Context, sosID, phone, code string) (*models.SOSEvent, error) {
	event, err := s.getEvent(ctx, sosID)
	if err != nil {
		return nil, err
	}

	switch event.Status {
	case models.SOSStatusInitiated, models.SOSStatusCountdown, models.SOSStatusOTPSent:
	default:
		return nil, &models.StateConflictError{Operation: "verify", Current: event.Status}
	}

	result, err := s.otp.Verify(ctx, phone, code, otpPurpose(sosID))
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &models.OTPError{Message: result.Message}
	}

	updates := map[string]interface{}{
		"status":         models.SOSStatusDispatched,
		"verified_phone": phone,
	}
	snapshot := s.assignAmbulance(ctx, sosID, event.Latitude, event.Longitude)
	if snapshot != nil {
		updates["assigned_ambulance"] = snapshot
	}
	if err := s.sosRepo.Update(ctx, event.ID, updates); err != nil {
		return nil, err
	}

	s.logger.LogDispatchEvent(sosID, "sos_dispatched", map[string]interface{}{
		"assigned": snapshot != nil,
	})

	updated, err := s.sosRepo.GetByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	if updated.UserID != nil {
		s.recordBookingHistory(ctx, updated)
	}

	return updated, nil
}

func (s *sosService) GetStatus(ctx context.Context, sosID string) (*models.SOSEvent, error) {
	return s.getEvent(ctx, sosID)
}

// Cancel moves a non-terminal SOS to cancelled, releasing its ambulance
// first so a crash between the two writes can only leak toward availability,
// and stopping any live simulation for the trip.
func (s *sosService) Cancel(ctx context.Context, sosID, reason string) (*models.SOSEvent, error) {
	event, err := s.getEvent(ctx, sosID)
	if err != nil {
		return nil, err
	}

	if event.Status.IsTerminal() {
		return nil, &models.StateConflictError{Operation: "cancel", Current: event.Status}
	}

	if event.AssignedAmbulance != nil && event.AssignedAmbulance.AmbulanceID != "" {
		if err := s.fleet.Release(ctx, event.AssignedAmbulance.AmbulanceID); err != nil {
			return nil, err
		}
	}

	if s.monitor != nil {
		s.monitor.StopSimulation(sosID)
	}

	updates := map[string]interface{}{
		"status": models.SOSStatusCancelled,
	}
	if reason != "" {
		updates["cancel_reason"] = reason
	}
	if err := s.sosRepo.Update(ctx, event.ID, updates); err != nil {
		return nil, err
	}

	s.logger.LogDispatchEvent(sosID, "sos_cancelled", map[string]interface{}{
		"reason": reason,
	})

	return s.sosRepo.GetByID(ctx, event.ID)
}

func (s *sosService) getEvent(ctx context.Context, sosID string) (*models.SOSEvent, error) {
	id, err := primitive.ObjectIDFromHex(sosID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return s.sosRepo.GetByID(ctx, id)
}

func otpPurpose(sosID string) string {
	return "sos_" + sosID
}

// assignAmbulance tries to reserve the nearest available unit. Dispatch must
// not fail because the fleet is empty or the reservation errored, so both
// cases collapse to a nil snapshot.
func (s *sosService) assignAmbulance(ctx context.Context, sosID string, lat, lng *float64) *models.AssignedAmbulance {
	snapshot, err := s.fleet.FindAndAssign(ctx, lat, lng, models.TripRef{
		SOSID:      sosID,
		AssignedAt: time.Now(),
	})
	if err != nil {
		s.logger.WithError(err).WithSOSID(sosID).Error("Ambulance assignment failed")
		return nil
	}
	return snapshot
}

// recordBookingHistory appends an SOS-typed entry to the caller's booking
// history. Best effort: a history write failure never blocks dispatch.
func (s *sosService) recordBookingHistory(ctx context.Context, event *models.SOSEvent) {
	if event.UserID == nil {
		return
	}

	patientName := "SOS Caller"
	patientPhone := ""
	if profile, err := s.users.GetProfile(ctx, *event.UserID); err == nil {
		if profile.FullName != "" {
			patientName = profile.FullName
		}
		patientPhone = profile.Phone
	}
	if patientPhone == "" && event.VerifiedPhone != nil {
		patientPhone = *event.VerifiedPhone
	}

	pickup := event.Address
	if pickup == "" {
		if event.Latitude != nil && event.Longitude != nil {
			pickup = fmt.Sprintf("GPS: %f, %f", *event.Latitude, *event.Longitude)
		} else {
			pickup = "Location not available"
		}
	}

	now := time.Now()
	booking := &models.Booking{
		UserID:            *event.UserID,
		PatientName:       patientName,
		PatientPhone:      patientPhone,
		PickupAddress:     pickup,
		Destination:       "Nearest Hospital (Emergency)",
		ScheduledDate:     now.Format("2006-01-02"),
		ScheduledTime:     now.Format("15:04"),
		Reason:            "Emergency SOS",
		Status:            models.BookingStatusConfirmed,
		BookingType:       "sos",
		SOSID:             event.ID.Hex(),
		AssignedAmbulance: event.AssignedAmbulance,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.logger.WithError(err).WithSOSID(booking.SOSID).Warn("Failed to record SOS booking history")
	}
}
