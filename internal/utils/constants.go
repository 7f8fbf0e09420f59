package utils

import "time"

// Application Constants
const (
	AppName    = "AmbuDispatch"
	AppVersion = "1.0.0"

	// Authentication / OTP
	OTPLength = 6
	OTPExpiry = 10 * time.Minute

	// Dispatch Constants
	// Ambulances without a known base position sort after every real
	// distance, so they are only chosen as a last resort.
	UnknownBaseDistanceKM = 999999.0
	AssignRetryAttempts   = 2

	// Tracking Constants
	DefaultETAMinutes     = 8.0
	DefaultVehicleType    = "ALS"
	SimulationSteps       = 60
	SimulationStepPause   = 2 * time.Second
	TrackingSendBuffer    = 16
	DriverUpdateInterval  = 30 * time.Second
	RoutingRequestTimeout = 10 * time.Second
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrValidationFailed = "validation failed"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized access"
	ErrForbidden        = "access forbidden"
)

// Tracking status labels pushed to viewers.
const (
	TripStatusDispatched = "dispatched"
	TripStatusEnRoute    = "en_route"
	TripStatusNearby     = "nearby"
	TripStatusArrived    = "arrived"
)
