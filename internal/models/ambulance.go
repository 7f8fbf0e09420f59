package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AmbulanceStatus string

const (
	AmbulanceStatusAvailable   AmbulanceStatus = "available"
	AmbulanceStatusOnTrip      AmbulanceStatus = "on_trip"
	AmbulanceStatusMaintenance AmbulanceStatus = "maintenance"
	AmbulanceStatusOffDuty     AmbulanceStatus = "off_duty"
)

type AmbulanceType string

const (
	AmbulanceTypeBasic            AmbulanceType = "basic"
	AmbulanceTypeAdvanced         AmbulanceType = "advanced"
	AmbulanceTypePatientTransport AmbulanceType = "patient_transport"
	AmbulanceTypeNeonatal         AmbulanceType = "neonatal"
	AmbulanceTypeAir              AmbulanceType = "air"
)

// TripRef identifies the trip an ambulance is reserved for. Exactly one of
// SOSID or BookingID is set.
type TripRef struct {
	SOSID      string    `json:"sos_id,omitempty" bson:"sos_id,omitempty"`
	BookingID  string    `json:"booking_id,omitempty" bson:"booking_id,omitempty"`
	AssignedAt time.Time `json:"assigned_at" bson:"assigned_at"`
}

// ID returns whichever trip identifier is set.
func (t TripRef) ID() string {
	if t.SOSID != "" {
		return t.SOSID
	}
	return t.BookingID
}

// Ambulance is a fleet unit. Base coordinates are where the unit is
// stationed between trips; they are optional because some operators only
// register a depot address.
type Ambulance struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleNumber     string             `json:"vehicle_number" bson:"vehicle_number"`
	VehicleType       AmbulanceType      `json:"vehicle_type" bson:"vehicle_type"`
	VehicleMake       string             `json:"vehicle_make,omitempty" bson:"vehicle_make,omitempty"`
	VehicleModel      string             `json:"vehicle_model,omitempty" bson:"vehicle_model,omitempty"`
	VehicleYear       int                `json:"vehicle_year,omitempty" bson:"vehicle_year,omitempty"`
	HasOxygen         bool               `json:"has_oxygen" bson:"has_oxygen"`
	HasDefibrillator  bool               `json:"has_defibrillator" bson:"has_defibrillator"`
	HasStretcher      bool               `json:"has_stretcher" bson:"has_stretcher"`
	HasVentilator     bool               `json:"has_ventilator" bson:"has_ventilator"`
	DriverName        string             `json:"driver_name" bson:"driver_name"`
	DriverPhone       string             `json:"driver_phone" bson:"driver_phone"`
	DriverPhotoURL    string             `json:"driver_photo_url,omitempty" bson:"driver_photo_url,omitempty"`
	BaseAddress       string             `json:"base_address,omitempty" bson:"base_address,omitempty"`
	BaseLatitude      *float64           `json:"base_latitude" bson:"base_latitude"`
	BaseLongitude     *float64           `json:"base_longitude" bson:"base_longitude"`
	OperatorID        string             `json:"operator_id,omitempty" bson:"operator_id,omitempty"`
	Status            AmbulanceStatus    `json:"status" bson:"status"`
	CurrentAssignment *TripRef           `json:"current_assignment" bson:"current_assignment"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
}

func (a *Ambulance) HasBaseLocation() bool {
	return a.BaseLatitude != nil && a.BaseLongitude != nil
}

// AssignedAmbulance is the immutable snapshot embedded in an SOS event at
// dispatch time. Later fleet edits must not rewrite dispatch history, so the
// fields are copied rather than referenced.
type AssignedAmbulance struct {
	AmbulanceID      string   `json:"ambulance_id" bson:"ambulance_id"`
	VehicleNumber    string   `json:"vehicle_number" bson:"vehicle_number"`
	VehicleType      string   `json:"vehicle_type" bson:"vehicle_type"`
	VehicleMake      string   `json:"vehicle_make,omitempty" bson:"vehicle_make,omitempty"`
	VehicleModel     string   `json:"vehicle_model,omitempty" bson:"vehicle_model,omitempty"`
	VehicleYear      int      `json:"vehicle_year,omitempty" bson:"vehicle_year,omitempty"`
	HasOxygen        bool     `json:"has_oxygen" bson:"has_oxygen"`
	HasDefibrillator bool     `json:"has_defibrillator" bson:"has_defibrillator"`
	HasStretcher     bool     `json:"has_stretcher" bson:"has_stretcher"`
	HasVentilator    bool     `json:"has_ventilator" bson:"has_ventilator"`
	DriverName       string   `json:"driver_name" bson:"driver_name"`
	DriverPhone      string   `json:"driver_phone" bson:"driver_phone"`
	DriverPhotoURL   string   `json:"driver_photo_url,omitempty" bson:"driver_photo_url,omitempty"`
	BaseAddress      string   `json:"base_address,omitempty" bson:"base_address,omitempty"`
	BaseLatitude     *float64 `json:"base_latitude" bson:"base_latitude"`
	BaseLongitude    *float64 `json:"base_longitude" bson:"base_longitude"`
	OperatorID       string   `json:"operator_id,omitempty" bson:"operator_id,omitempty"`
	DistanceKM       *float64 `json:"distance_km" bson:"distance_km"`
}
