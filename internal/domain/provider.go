package domain

import "context"

// Provider resolves addresses and coordinates and estimates distances.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ID is the identity stamped on every result.
	ID() ProviderID

	// Geocode converts a free-form address to a coordinate and structured address.
	Geocode(ctx context.Context, address string) (GeocodingResult, error)

	// ReverseGeocode converts a coordinate to a structured address.
	ReverseGeocode(ctx context.Context, c Coordinate) (ReverseGeocodingResult, error)

	// CalculateDistance estimates distance and travel time between two coordinates.
	CalculateDistance(ctx context.Context, origin, destination Coordinate) (DistanceResult, error)
}
