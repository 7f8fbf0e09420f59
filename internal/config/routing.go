package config

import (
	"time"
)

type RoutingConfig struct {
	BaseURL string        `yaml:"base_url"`
	Profile string        `yaml:"profile"`
	Timeout time.Duration `yaml:"timeout"`
}

func loadRoutingConfig() *RoutingConfig {
	return &RoutingConfig{
		BaseURL: getEnv("OSRM_BASE_URL", "http://router.project-osrm.org"),
		Profile: getEnv("OSRM_PROFILE", "driving"),
		Timeout: getEnvAsDuration("OSRM_TIMEOUT", 10*time.Second),
	}
}
