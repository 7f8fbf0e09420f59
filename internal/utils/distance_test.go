package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateDistance(22.5726, 88.3639, 22.5726, 88.3639))
	})

	t.Run("known city pair", func(t *testing.T) {
		// Kolkata to Delhi is roughly 1300 km great-circle.
		d := CalculateDistance(22.5726, 88.3639, 28.6139, 77.2090)
		assert.InDelta(t, 1305, d, 15)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := CalculateDistance(22.5847, 88.3426, 22.5726, 88.3639)
		b := CalculateDistance(22.5726, 88.3639, 22.5847, 88.3426)
		assert.InDelta(t, a, b, 1e-9)
	})

	t.Run("short hop within a city", func(t *testing.T) {
		// Central Kolkata dispatch base to the default pickup point.
		d := CalculateDistance(22.5847, 88.3426, 22.5726, 88.3639)
		assert.Greater(t, d, 1.0)
		assert.Less(t, d, 5.0)
	})
}

func TestCalculateBearing(t *testing.T) {
	t.Run("zero for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, CalculateBearing(22.5726, 88.3639, 22.5726, 88.3639))
	})

	t.Run("due north", func(t *testing.T) {
		assert.InDelta(t, 0, CalculateBearing(22.0, 88.0, 23.0, 88.0), 0.001)
	})

	t.Run("due east", func(t *testing.T) {
		assert.InDelta(t, 90, CalculateBearing(0.0, 88.0, 0.0, 89.0), 0.5)
	})

	t.Run("due south", func(t *testing.T) {
		assert.InDelta(t, 180, CalculateBearing(23.0, 88.0, 22.0, 88.0), 0.001)
	})

	t.Run("always within range", func(t *testing.T) {
		points := [][4]float64{
			{22.58, 88.34, 22.57, 88.36},
			{22.57, 88.36, 22.58, 88.34},
			{-33.87, 151.21, 51.51, -0.13},
			{51.51, -0.13, -33.87, 151.21},
		}
		for _, p := range points {
			b := CalculateBearing(p[0], p[1], p[2], p[3])
			assert.GreaterOrEqual(t, b, 0.0)
			assert.Less(t, b, 360.0)
		}
	})
}

func TestIsWithinRadius(t *testing.T) {
	assert.True(t, IsWithinRadius(22.5847, 88.3426, 22.5726, 88.3639, 5))
	assert.False(t, IsWithinRadius(22.5726, 88.3639, 28.6139, 77.2090, 100))
}

func TestEstimateETAMinutes(t *testing.T) {
	assert.Equal(t, 60, EstimateETAMinutes(40, 40))
	assert.Equal(t, 30, EstimateETAMinutes(20, 40))

	// Non-positive speed falls back to the default city speed.
	assert.Equal(t, EstimateETAMinutes(15, 30), EstimateETAMinutes(15, 0))
}

func TestRoundKM(t *testing.T) {
	assert.Equal(t, 2.35, RoundKM(2.3456))
	assert.Equal(t, 2.34, RoundKM(2.344))
	assert.Equal(t, 0.0, RoundKM(0))
	assert.Equal(t, 999999.0, RoundKM(999999.0))
}
