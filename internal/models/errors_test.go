package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateConflictError(t *testing.T) {
	err := &StateConflictError{Operation: "cancel", Current: SOSStatusCompleted}
	assert.Equal(t, "cannot cancel SOS in 'completed' status", err.Error())

	assert.True(t, IsStateConflict(err))
	assert.True(t, IsStateConflict(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsStateConflict(errors.New("other")))
	assert.False(t, IsStateConflict(ErrNotFound))
}

func TestOTPError(t *testing.T) {
	err := &OTPError{Message: "Invalid OTP code."}
	assert.Equal(t, "Invalid OTP code.", err.Error())

	assert.True(t, IsOTPError(err))
	assert.True(t, IsOTPError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsOTPError(ErrNotFound))
}

func TestSOSStatusIsTerminal(t *testing.T) {
	assert.True(t, SOSStatusCancelled.IsTerminal())
	assert.True(t, SOSStatusCompleted.IsTerminal())
	assert.False(t, SOSStatusInitiated.IsTerminal())
	assert.False(t, SOSStatusOTPSent.IsTerminal())
	assert.False(t, SOSStatusDispatched.IsTerminal())
}

func TestTripRefID(t *testing.T) {
	assert.Equal(t, "sos-1", TripRef{SOSID: "sos-1"}.ID())
	assert.Equal(t, "bk-1", TripRef{BookingID: "bk-1"}.ID())
	assert.Equal(t, "sos-1", TripRef{SOSID: "sos-1", BookingID: "bk-1"}.ID())
}
