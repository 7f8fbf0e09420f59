package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is the history record written when an SOS is dispatched for an
// authenticated caller. Scheduled-booking CRUD lives in another service;
// this core only appends SOS-typed entries.
type Booking struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID            string             `json:"user_id" bson:"user_id"`
	PatientName       string             `json:"patient_name" bson:"patient_name"`
	PatientPhone      string             `json:"patient_phone" bson:"patient_phone"`
	PickupAddress     string             `json:"pickup_address" bson:"pickup_address"`
	Destination       string             `json:"destination" bson:"destination"`
	ScheduledDate     string             `json:"scheduled_date" bson:"scheduled_date"`
	ScheduledTime     string             `json:"scheduled_time" bson:"scheduled_time"`
	Reason            string             `json:"reason" bson:"reason"`
	AdditionalNotes   string             `json:"additional_notes,omitempty" bson:"additional_notes,omitempty"`
	Status            BookingStatus      `json:"status" bson:"status"`
	BookingType       string             `json:"booking_type" bson:"booking_type"`
	SOSID             string             `json:"sos_id,omitempty" bson:"sos_id,omitempty"`
	AssignedAmbulance *AssignedAmbulance `json:"assigned_ambulance" bson:"assigned_ambulance"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}
