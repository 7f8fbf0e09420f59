package models

// TrackingUpdate is one GPS push from a driver/operator client. Latitude and
// longitude are required; everything else only overwrites the session when
// present.
type TrackingUpdate struct {
	Latitude      *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Heading       *float64 `json:"heading" binding:"omitempty,gte=0,lte=360"`
	Speed         *float64 `json:"speed" binding:"omitempty,gte=0"`
	ETAMinutes    *float64 `json:"eta_minutes" binding:"omitempty,gte=0"`
	Status        string   `json:"status" binding:"omitempty,oneof=dispatched en_route nearby arrived"`
	DriverName    string   `json:"driver_name"`
	DriverPhone   string   `json:"driver_phone"`
	VehicleNumber string   `json:"vehicle_number"`
	VehicleType   string   `json:"vehicle_type"`
}

// TrackingSnapshot is the full session state broadcast to viewers.
type TrackingSnapshot struct {
	TripID        string  `json:"trip_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Heading       float64 `json:"heading"`
	Speed         float64 `json:"speed"`
	ETAMinutes    float64 `json:"eta_minutes"`
	Status        string  `json:"status"`
	DriverName    string  `json:"driver_name"`
	DriverPhone   string  `json:"driver_phone"`
	VehicleNumber string  `json:"vehicle_number"`
	VehicleType   string  `json:"vehicle_type"`
	UpdatedAt     int64   `json:"updated_at"`
}
