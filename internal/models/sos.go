package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SOSStatus string

const (
	SOSStatusInitiated  SOSStatus = "initiated"
	SOSStatusCountdown  SOSStatus = "countdown"
	SOSStatusOTPSent    SOSStatus = "otp_sent"
	SOSStatusVerified   SOSStatus = "verified"
	SOSStatusDispatched SOSStatus = "dispatched"
	SOSStatusCancelled  SOSStatus = "cancelled"
	SOSStatusCompleted  SOSStatus = "completed"
)

// IsTerminal reports whether the status is an absorbing state.
func (s SOSStatus) IsTerminal() bool {
	return s == SOSStatusCancelled || s == SOSStatusCompleted
}

// SOSEvent is one emergency dispatch request and its lifecycle record.
// Events are never hard-deleted; terminal states are immutable.
type SOSEvent struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID            *string            `json:"user_id" bson:"user_id"`
	Status            SOSStatus          `json:"status" bson:"status"`
	Latitude          *float64           `json:"latitude" bson:"latitude"`
	Longitude         *float64           `json:"longitude" bson:"longitude"`
	Address           string             `json:"address,omitempty" bson:"address,omitempty"`
	VerifiedPhone     *string            `json:"verified_phone" bson:"verified_phone"`
	AssignedAmbulance *AssignedAmbulance `json:"assigned_ambulance" bson:"assigned_ambulance"`
	CancelReason      *string            `json:"cancel_reason" bson:"cancel_reason"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

type SOSActivateRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Address   string   `json:"address" binding:"max=500"`
}

type SOSSendOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=20"`
}

type SOSVerifyRequest struct {
	Phone   string `json:"phone" binding:"required,min=10,max=20"`
	OTPCode string `json:"otp_code" binding:"required,min=4,max=8"`
}

type SOSCancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
