package config

import (
	"time"
)

type TrackingConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout"`
	WriteWait       time.Duration `yaml:"write_wait"`

	// Simulation defaults. The pickup and drop points anchor demo journeys
	// when no real booking data is available (central Kolkata).
	SimulationSteps     int           `yaml:"simulation_steps"`
	SimulationStepPause time.Duration `yaml:"simulation_step_pause"`
	DefaultDispatchLat  float64       `yaml:"default_dispatch_lat"`
	DefaultDispatchLng  float64       `yaml:"default_dispatch_lng"`
	PickupLat           float64       `yaml:"pickup_lat"`
	PickupLng           float64       `yaml:"pickup_lng"`
	DropLat             float64       `yaml:"drop_lat"`
	DropLng             float64       `yaml:"drop_lng"`
}

func loadTrackingConfig() *TrackingConfig {
	return &TrackingConfig{
		ReadBufferSize:  getEnvAsInt("TRACKING_READ_BUFFER_SIZE", 1024),
		WriteBufferSize: getEnvAsInt("TRACKING_WRITE_BUFFER_SIZE", 1024),
		PingInterval:    getEnvAsDuration("TRACKING_PING_INTERVAL", 54*time.Second),
		PongTimeout:     getEnvAsDuration("TRACKING_PONG_TIMEOUT", 60*time.Second),
		WriteWait:       getEnvAsDuration("TRACKING_WRITE_WAIT", 10*time.Second),

		SimulationSteps:     getEnvAsInt("TRACKING_SIMULATION_STEPS", 60),
		SimulationStepPause: getEnvAsDuration("TRACKING_SIMULATION_STEP_PAUSE", 2*time.Second),
		DefaultDispatchLat:  getEnvAsFloat64("TRACKING_DEFAULT_DISPATCH_LAT", 22.5847),
		DefaultDispatchLng:  getEnvAsFloat64("TRACKING_DEFAULT_DISPATCH_LNG", 88.3426),
		PickupLat:           getEnvAsFloat64("TRACKING_PICKUP_LAT", 22.5726),
		PickupLng:           getEnvAsFloat64("TRACKING_PICKUP_LNG", 88.3639),
		DropLat:             getEnvAsFloat64("TRACKING_DROP_LAT", 22.5448),
		DropLng:             getEnvAsFloat64("TRACKING_DROP_LNG", 88.3426),
	}
}
