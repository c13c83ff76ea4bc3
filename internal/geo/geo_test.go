package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	stationLat = 48.2789
	stationLon = 8.4294
)

func TestDistanceKm_SamePoint(t *testing.T) {
	t.Parallel()

	d := DistanceKm(stationLat, stationLon, stationLat, stationLon)
	assert.InDelta(t, 0.0, d, 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	t.Parallel()

	// Stuttgart airport to Frankfurt airport, roughly 130 km apart
	d := DistanceKm(48.6899, 9.2220, 50.0379, 8.5622)
	assert.InDelta(t, 157.0, d, 10.0)
}

func TestWithinRadius_ReferencePoint(t *testing.T) {
	t.Parallel()

	// The reference point itself is inside any non-negative radius
	assert.True(t, WithinRadius(stationLat, stationLon, stationLat, stationLon, 0))
	assert.True(t, WithinRadius(stationLat, stationLon, stationLat, stationLon, 5))
}

func TestWithinRadius_Monotonicity(t *testing.T) {
	t.Parallel()

	// A point inside a small radius must be inside every larger radius
	lat, lon := 48.30, 8.45
	for r := 5.0; r <= 100; r += 5 {
		if WithinRadius(stationLat, stationLon, lat, lon, r) {
			assert.True(t, WithinRadius(stationLat, stationLon, lat, lon, r+5),
				"point inside %.0f NM must be inside %.0f NM", r, r+5)
		}
	}
}

func TestWithinRadius_Geofence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lon float64
		radiusNM float64
		want     bool
	}{
		{"overhead aircraft inside", 48.28, 8.43, 5, true},
		{"distant aircraft outside", 49.0, 9.0, 5, false},
		{"distant aircraft inside large radius", 49.0, 9.0, 100, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := WithinRadius(stationLat, stationLon, tt.lat, tt.lon, tt.radiusNM)
			assert.Equal(t, tt.want, got)
		})
	}
}
