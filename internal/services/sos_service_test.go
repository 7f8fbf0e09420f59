package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ambudispatch/internal/models"
)

type fakeSOSRepo struct {
	events map[primitive.ObjectID]*models.SOSEvent
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{events: make(map[primitive.ObjectID]*models.SOSEvent)}
}

func (f *fakeSOSRepo) Create(ctx context.Context, event *models.SOSEvent) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeSOSRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.SOSEvent, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeSOSRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	event, ok := f.events[id]
	if !ok {
		return models.ErrNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			event.Status = value.(models.SOSStatus)
		case "verified_phone":
			phone := value.(string)
			event.VerifiedPhone = &phone
		case "assigned_ambulance":
			event.AssignedAmbulance = value.(*models.AssignedAmbulance)
		case "cancel_reason":
			reason := value.(string)
			event.CancelReason = &reason
		}
	}
	event.UpdatedAt = time.Now()
	return nil
}

type fakeBookingRepo struct {
	created []*models.Booking
	err     error
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if f.err != nil {
		return f.err
	}
	booking.ID = primitive.NewObjectID()
	f.created = append(f.created, booking)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	for _, b := range f.created {
		if b.ID.Hex() == id {
			return b, nil
		}
	}
	return nil, models.ErrNotFound
}

type fakeUserDirectory struct {
	profiles map[string]*models.UserProfile
}

func (f *fakeUserDirectory) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if profile, ok := f.profiles[userID]; ok {
		return profile, nil
	}
	return nil, models.ErrNotFound
}

type fakeFleetService struct {
	snapshot   *models.AssignedAmbulance
	assignErr  error
	assigned   []models.TripRef
	released   []string
	releaseErr error
}

func (f *fakeFleetService) FindAndAssign(ctx context.Context, lat, lng *float64, trip models.TripRef) (*models.AssignedAmbulance, error) {
	f.assigned = append(f.assigned, trip)
	return f.snapshot, f.assignErr
}

func (f *fakeFleetService) Release(ctx context.Context, ambulanceID string) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, ambulanceID)
	return nil
}

func (f *fakeFleetService) GetAssignmentForTrip(ctx context.Context, tripID string) (*models.Ambulance, error) {
	return nil, models.ErrNotFound
}

// fakeOTPService replays canned results: send always answers sendResult,
// verify pops verifyResults front to back.
type fakeOTPService struct {
	sendResult    *OTPResult
	sentPurposes  []string
	verifyResults []*OTPResult
	verifiedCodes []string
}

func (f *fakeOTPService) Send(ctx context.Context, phone, purpose string) (*OTPResult, error) {
	f.sentPurposes = append(f.sentPurposes, purpose)
	if f.sendResult != nil {
		return f.sendResult, nil
	}
	return &OTPResult{Success: true, Message: "OTP sent successfully"}, nil
}

func (f *fakeOTPService) Verify(ctx context.Context, phone, code, purpose string) (*OTPResult, error) {
	f.verifiedCodes = append(f.verifiedCodes, code)
	if len(f.verifyResults) == 0 {
		return &OTPResult{Success: true, Message: "OTP verified successfully"}, nil
	}
	result := f.verifyResults[0]
	f.verifyResults = f.verifyResults[1:]
	return result, nil
}

type fakeTripMonitor struct {
	stopped []string
}

func (f *fakeTripMonitor) StopSimulation(tripID string) {
	f.stopped = append(f.stopped, tripID)
}

type sosFixture struct {
	svc      SOSService
	sosRepo  *fakeSOSRepo
	bookings *fakeBookingRepo
	fleet    *fakeFleetService
	otp      *fakeOTPService
	monitor  *fakeTripMonitor
}

func newSOSFixture(t *testing.T) *sosFixture {
	t.Helper()
	f := &sosFixture{
		sosRepo:  newFakeSOSRepo(),
		bookings: &fakeBookingRepo{},
		fleet:    &fakeFleetService{},
		otp:      &fakeOTPService{},
		monitor:  &fakeTripMonitor{},
	}
	users := &fakeUserDirectory{profiles: map[string]*models.UserProfile{
		"user-1": {FullName: "Asha Verma", Phone: "+919999888877"},
	}}
	f.svc = NewSOSService(f.sosRepo, f.bookings, users, f.fleet, f.otp, f.monitor, newTestLogger(t))
	return f
}

func testSnapshot() *models.AssignedAmbulance {
	d := 2.41
	return &models.AssignedAmbulance{
		AmbulanceID:   primitive.NewObjectID().Hex(),
		VehicleNumber: "WB 20 SOS 0001",
		VehicleType:   "advanced",
		DriverName:    "Sunil Das",
		DriverPhone:   "+911112223334",
		DistanceKM:    &d,
	}
}

func strPtr(s string) *string { return &s }

func TestActivateAnonymous(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{
		Latitude:  f64(22.5726),
		Longitude: f64(88.3639),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SOSStatusInitiated, event.Status)
	assert.Nil(t, event.UserID)
	assert.Nil(t, event.AssignedAmbulance)
	assert.Empty(t, f.fleet.assigned, "anonymous activation must not dispatch")
	assert.Empty(t, f.bookings.created)
}

func TestActivateAuthenticatedDispatchesImmediately(t *testing.T) {
	f := newSOSFixture(t)
	f.fleet.snapshot = testSnapshot()

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{
		Latitude:  f64(22.5726),
		Longitude: f64(88.3639),
		Address:   "12 Park Street",
	}, strPtr("user-1"))
	require.NoError(t, err)

	assert.Equal(t, models.SOSStatusDispatched, event.Status)
	require.NotNil(t, event.AssignedAmbulance)
	assert.Equal(t, "WB 20 SOS 0001", event.AssignedAmbulance.VehicleNumber)

	require.Len(t, f.fleet.assigned, 1)
	assert.Equal(t, event.ID.Hex(), f.fleet.assigned[0].SOSID)

	stored, err := f.sosRepo.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedAmbulance)

	require.Len(t, f.bookings.created, 1)
	booking := f.bookings.created[0]
	assert.Equal(t, "sos", booking.BookingType)
	assert.Equal(t, event.ID.Hex(), booking.SOSID)
	assert.Equal(t, "Asha Verma", booking.PatientName)
	assert.Equal(t, "12 Park Street", booking.PickupAddress)
	assert.Equal(t, "Nearest Hospital (Emergency)", booking.Destination)
}

func TestActivateAuthenticatedWithEmptyFleet(t *testing.T) {
	f := newSOSFixture(t)
	f.fleet.snapshot = nil

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{
		Latitude:  f64(22.5726),
		Longitude: f64(88.3639),
	}, strPtr("user-1"))
	require.NoError(t, err)

	// Still dispatched: help is coming even when no unit could be reserved.
	assert.Equal(t, models.SOSStatusDispatched, event.Status)
	assert.Nil(t, event.AssignedAmbulance)
	require.Len(t, f.bookings.created, 1)
	assert.Nil(t, f.bookings.created[0].AssignedAmbulance)
}

func TestActivateBookingFailureDoesNotFailDispatch(t *testing.T) {
	f := newSOSFixture(t)
	f.bookings.err = assert.AnError
	f.fleet.snapshot = testSnapshot()

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, strPtr("user-1"))
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusDispatched, event.Status)
}

func TestSendVerification(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, nil)
	require.NoError(t, err)
	sosID := event.ID.Hex()

	result, err := f.svc.SendVerification(context.Background(), sosID, "+911234567890")
	require.NoError(t, err)
	assert.True(t, result.Success)

	require.Len(t, f.otp.sentPurposes, 1)
	assert.Equal(t, "sos_"+sosID, f.otp.sentPurposes[0])

	stored, err := f.svc.GetStatus(context.Background(), sosID)
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusOTPSent, stored.Status)

	t.Run("resend from otp_sent is legal", func(t *testing.T) {
		_, err := f.svc.SendVerification(context.Background(), sosID, "+911234567890")
		assert.NoError(t, err)
	})
}

func TestSendVerificationFailedSendKeepsState(t *testing.T) {
	f := newSOSFixture(t)
	f.otp.sendResult = &OTPResult{Success: false, Message: "Failed to send OTP"}

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, nil)
	require.NoError(t, err)

	result, err := f.svc.SendVerification(context.Background(), event.ID.Hex(), "+911234567890")
	require.NoError(t, err)
	assert.False(t, result.Success)

	stored, err := f.svc.GetStatus(context.Background(), event.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusInitiated, stored.Status)
}

func TestSendVerificationIllegalState(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, strPtr("user-1"))
	require.NoError(t, err)

	_, err = f.svc.SendVerification(context.Background(), event.ID.Hex(), "+911234567890")
	require.Error(t, err)
	assert.True(t, models.IsStateConflict(err))
	assert.Contains(t, err.Error(), "dispatched")
}

func TestVerifyWrongCodeTwiceThenCorrect(t *testing.T) {
	f := newSOSFixture(t)
	f.fleet.snapshot = testSnapshot()
	f.otp.verifyResults = []*OTPResult{
		{Success: false, Message: "Invalid OTP code."},
		{Success: false, Message: "Invalid OTP code."},
		{Success: true, Message: "OTP verified successfully"},
	}

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{
		Latitude:  f64(22.5726),
		Longitude: f64(88.3639),
	}, nil)
	require.NoError(t, err)
	sosID := event.ID.Hex()

	_, err = f.svc.SendVerification(context.Background(), sosID, "+911234567890")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.svc.Verify(context.Background(), sosID, "+911234567890", "000000")
		require.Error(t, err)
		assert.True(t, models.IsOTPError(err))

		stored, err := f.svc.GetStatus(context.Background(), sosID)
		require.NoError(t, err)
		assert.Equal(t, models.SOSStatusOTPSent, stored.Status, "wrong code must not change state")
	}

	verified, err := f.svc.Verify(context.Background(), sosID, "+911234567890", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusDispatched, verified.Status)
	require.NotNil(t, verified.VerifiedPhone)
	assert.Equal(t, "+911234567890", *verified.VerifiedPhone)
	require.NotNil(t, verified.AssignedAmbulance)
}

func TestVerifyIllegalFromTerminal(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, nil)
	require.NoError(t, err)
	sosID := event.ID.Hex()

	_, err = f.svc.Cancel(context.Background(), sosID, "caller safe")
	require.NoError(t, err)

	_, err = f.svc.Verify(context.Background(), sosID, "+911234567890", "123456")
	require.Error(t, err)
	assert.True(t, models.IsStateConflict(err))
}

func TestCancelReleasesAmbulanceAndStopsSimulation(t *testing.T) {
	f := newSOSFixture(t)
	f.fleet.snapshot = testSnapshot()

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{
		Latitude:  f64(22.5726),
		Longitude: f64(88.3639),
	}, strPtr("user-1"))
	require.NoError(t, err)
	sosID := event.ID.Hex()

	cancelled, err := f.svc.Cancel(context.Background(), sosID, "reached hospital by car")
	require.NoError(t, err)

	assert.Equal(t, models.SOSStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "reached hospital by car", *cancelled.CancelReason)

	require.Len(t, f.fleet.released, 1)
	assert.Equal(t, event.AssignedAmbulance.AmbulanceID, f.fleet.released[0])
	assert.Equal(t, []string{sosID}, f.monitor.stopped)
}

func TestCancelWithoutAssignment(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, nil)
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), event.ID.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, models.SOSStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CancelReason)
	assert.Empty(t, f.fleet.released)
}

func TestCancelTerminalIsConflict(t *testing.T) {
	f := newSOSFixture(t)

	event, err := f.svc.Activate(context.Background(), &models.SOSActivateRequest{}, nil)
	require.NoError(t, err)
	sosID := event.ID.Hex()

	_, err = f.svc.Cancel(context.Background(), sosID, "first")
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), sosID, "second")
	require.Error(t, err)
	assert.True(t, models.IsStateConflict(err))
	assert.Contains(t, err.Error(), "cancelled")
}

func TestGetStatusUnknown(t *testing.T) {
	f := newSOSFixture(t)

	_, err := f.svc.GetStatus(context.Background(), primitive.NewObjectID().Hex())
	assert.Equal(t, models.ErrNotFound, err)

	_, err = f.svc.GetStatus(context.Background(), "not-a-hex-id")
	assert.Equal(t, models.ErrNotFound, err)
}
