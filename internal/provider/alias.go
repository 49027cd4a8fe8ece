package provider

import (
	"context"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

// Alias presents an inner provider under a different identity. It forwards
// every call unchanged and rewrites only the ProviderID of the result, so a
// real backend can later replace the inner provider without changing shape.
type Alias struct {
	id     domain.ProviderID
	inner  domain.Provider
	apiKey string
}

// NewAlias wraps inner under id. apiKey is held for a future real backend.
func NewAlias(id domain.ProviderID, inner domain.Provider, apiKey string) *Alias {
	return &Alias{id: id, inner: inner, apiKey: apiKey}
}

func (a *Alias) ID() domain.ProviderID { return a.id }

// HasCredentials reports whether an API key was configured.
func (a *Alias) HasCredentials() bool { return a.apiKey != "" }

func (a *Alias) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	result, err := a.inner.Geocode(ctx, address)
	if err != nil {
		return result, err
	}
	result.ProviderID = a.id
	return result, nil
}

func (a *Alias) ReverseGeocode(ctx context.Context, c domain.Coordinate) (domain.ReverseGeocodingResult, error) {
	result, err := a.inner.ReverseGeocode(ctx, c)
	if err != nil {
		return result, err
	}
	result.ProviderID = a.id
	return result, nil
}

func (a *Alias) CalculateDistance(ctx context.Context, origin, destination domain.Coordinate) (domain.DistanceResult, error) {
	result, err := a.inner.CalculateDistance(ctx, origin, destination)
	if err != nil {
		return result, err
	}
	result.ProviderID = a.id
	return result, nil
}
