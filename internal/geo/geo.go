// Package geo implements great-circle distance math for the geofence.
package geo

import "math"

const (
	earthRadiusKm = 6371.0
	kmToNM        = 0.539957
)

// DistanceKm returns the haversine great-circle distance between two
// coordinates in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	lat1Rad := toRad(lat1)
	lat2Rad := toRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DistanceNM returns the great-circle distance in nautical miles.
func DistanceNM(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(lat1, lon1, lat2, lon2) * kmToNM
}

// WithinRadius reports whether (lat, lon) lies within radiusNM nautical
// miles of the reference point.
func WithinRadius(refLat, refLon, lat, lon, radiusNM float64) bool {
	return DistanceNM(refLat, refLon, lat, lon) <= radiusNM
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
