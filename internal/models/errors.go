package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for records or sessions that do not exist.
var ErrNotFound = errors.New("not found")

// StateConflictError is returned when an SOS operation is illegal in the
// event's current state. The record is left unchanged.
type StateConflictError struct {
	Operation string
	Current   SOSStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s SOS in '%s' status", e.Operation, e.Current)
}

// IsStateConflict reports whether err wraps a StateConflictError.
func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}

// OTPError is a rejected OTP send or verification attempt. It carries the
// provider's message and never implies a state change.
type OTPError struct {
	Message string
}

func (e *OTPError) Error() string {
	return e.Message
}

// IsOTPError reports whether err wraps an OTPError.
func IsOTPError(err error) bool {
	var oe *OTPError
	return errors.As(err, &oe)
}
