package provider

import (
	"math"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

const (
	earthRadiusMeters = 6371e3

	// secondsPerMeter converts distance to a rough travel time.
	secondsPerMeter = 72
)

// haversineMeters returns the great-circle distance between a and b.
func haversineMeters(a, b domain.Coordinate) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	dPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	dLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	// Rounding can push h just past 1 for antipodal points.
	h := math.Min(1, sinPhi*sinPhi+math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}
