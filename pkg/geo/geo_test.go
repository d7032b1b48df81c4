package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	johannesburg := Coordinates{Latitude: -26.2041, Longitude: 28.0473}
	pretoria := Coordinates{Latitude: -25.7479, Longitude: 28.2293}

	t.Run("known city pair", func(t *testing.T) {
		// Йоханнесбург - Претория около 53 км
		d := DistanceKm(johannesburg, pretoria)
		assert.InDelta(t, 53, d, 2)
	})

	t.Run("zero distance to itself", func(t *testing.T) {
		assert.Zero(t, DistanceKm(johannesburg, johannesburg))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, DistanceKm(johannesburg, pretoria), DistanceKm(pretoria, johannesburg), 1e-9)
	})
}

func TestDistanceMeters(t *testing.T) {
	a := Coordinates{Latitude: -26.2041, Longitude: 28.0473}
	b := Coordinates{Latitude: -26.2050, Longitude: 28.0473}

	// 0.0009 градуса широты это примерно 100 м
	assert.InDelta(t, 100, DistanceMeters(a, b), 5)
}

func TestCoordinates_Valid(t *testing.T) {
	assert.True(t, Coordinates{Latitude: -90, Longitude: 180}.Valid())
	assert.True(t, Coordinates{}.Valid())
	assert.False(t, Coordinates{Latitude: 91}.Valid())
	assert.False(t, Coordinates{Longitude: -181}.Valid())
}

func TestCoordinates_IsZero(t *testing.T) {
	assert.True(t, Coordinates{}.IsZero())
	assert.False(t, Coordinates{Latitude: 0.0001}.IsZero())
}
