package domain

import "math"

const (
	msgLatitudeRange  = "Latitude must be between -90 and 90"
	msgLongitudeRange = "Longitude must be between -180 and 180"
)

// CoordinateInput is an unvalidated coordinate as received from a caller.
// A nil field means the value was missing or not a number.
type CoordinateInput struct {
	Latitude  *float64
	Longitude *float64
}

// NewCoordinateInput wraps two known values.
func NewCoordinateInput(lat, lon float64) CoordinateInput {
	return CoordinateInput{Latitude: &lat, Longitude: &lon}
}

// Complete reports whether both fields are present and finite.
func (c CoordinateInput) Complete() bool {
	return c.Latitude != nil && c.Longitude != nil &&
		isFinite(*c.Latitude) && isFinite(*c.Longitude)
}

// Coordinate returns the value without validating it. Callers check Complete first.
func (c CoordinateInput) Coordinate() Coordinate {
	return Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
}

// ValidateRange checks latitude against [-90,90] and longitude against [-180,180].
func ValidateRange(c Coordinate) error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return InvalidInput(msgLatitudeRange)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return InvalidInput(msgLongitudeRange)
	}
	return nil
}

// ValidateCoordinate rejects non-finite and out-of-range values.
func ValidateCoordinate(c Coordinate) error {
	if !isFinite(c.Latitude) || !isFinite(c.Longitude) {
		return InvalidInput("Valid coordinates are required")
	}
	return ValidateRange(c)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
