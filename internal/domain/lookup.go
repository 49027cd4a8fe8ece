package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Operation names a map lookup kind.
type Operation string

const (
	OpGeocode        Operation = "geocode"
	OpReverseGeocode Operation = "reverse_geocode"
	OpDistance       Operation = "distance"
)

// LookupEvent is the journal record of one successful lookup.
type LookupEvent struct {
	ID               string     `json:"id"`
	Operation        Operation  `json:"operation"`
	Provider         ProviderID `json:"provider"`
	Query            string     `json:"query"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	FormattedAddress string     `json:"formatted_address,omitempty"`
	DistanceMeters   float64    `json:"distance_meters,omitempty"`
	DurationSeconds  float64    `json:"duration_seconds,omitempty"`
	RecordedAt       time.Time  `json:"recorded_at"`
}

// LookupRecorder persists or publishes lookup events.
type LookupRecorder interface {
	Record(ctx context.Context, event LookupEvent) error
}

// NewGeocodeEvent journals a forward lookup.
func NewGeocodeEvent(address string, r GeocodingResult) LookupEvent {
	return newEvent(OpGeocode, r.ProviderID, address, LookupEvent{
		Latitude:         r.Coordinates.Latitude,
		Longitude:        r.Coordinates.Longitude,
		FormattedAddress: r.Address.FormattedAddress,
	})
}

// NewReverseGeocodeEvent journals a reverse lookup.
func NewReverseGeocodeEvent(r ReverseGeocodingResult) LookupEvent {
	return newEvent(OpReverseGeocode, r.ProviderID, formatCoordinate(r.Coordinates), LookupEvent{
		Latitude:         r.Coordinates.Latitude,
		Longitude:        r.Coordinates.Longitude,
		FormattedAddress: r.Address.FormattedAddress,
	})
}

// NewDistanceEvent journals a distance estimate. The event coordinate is the origin.
func NewDistanceEvent(r DistanceResult) LookupEvent {
	query := formatCoordinate(r.Origin) + "->" + formatCoordinate(r.Destination)
	return newEvent(OpDistance, r.ProviderID, query, LookupEvent{
		Latitude:        r.Origin.Latitude,
		Longitude:       r.Origin.Longitude,
		DistanceMeters:  r.Distance.Value,
		DurationSeconds: r.Duration.Value,
	})
}

func newEvent(op Operation, provider ProviderID, query string, e LookupEvent) LookupEvent {
	e.Operation = op
	e.Provider = provider
	e.Query = query
	e.RecordedAt = clock.Now().UTC()
	e.ID = generateID(op, provider, query, e.RecordedAt)
	return e
}

func formatCoordinate(c Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// generateID derives a stable ID so replayed events deduplicate downstream.
func generateID(op Operation, provider ProviderID, query string, at time.Time) string {
	input := fmt.Sprintf("%s|%s|%s|%s", op, provider, query, at.Format(time.RFC3339Nano))
	hash := sha256.Sum256([]byte(input))
	return string(op) + "-" + hex.EncodeToString(hash[:8])
}
