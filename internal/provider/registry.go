package provider

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

// Credentials holds API keys for the named providers. Empty keys are allowed.
type Credentials struct {
	GoogleMapsAPIKey string
	TomTomAPIKey     string
}

// Registry is an immutable set of providers keyed by identity.
type Registry struct {
	providers map[domain.ProviderID]domain.Provider
}

// NewRegistry indexes providers by ID. Duplicate IDs are rejected.
func NewRegistry(providers ...domain.Provider) (*Registry, error) {
	m := make(map[domain.ProviderID]domain.Provider, len(providers))
	for _, p := range providers {
		if _, dup := m[p.ID()]; dup {
			return nil, fmt.Errorf("register provider %q: duplicate id", p.ID())
		}
		m[p.ID()] = p
	}
	return &Registry{providers: m}, nil
}

// NewDefaultRegistry registers the mock engine plus the google and tomtom
// aliases around it.
func NewDefaultRegistry(creds Credentials, logger *slog.Logger) (*Registry, error) {
	engine := NewEngine()
	google := NewAlias(domain.ProviderGoogle, engine, creds.GoogleMapsAPIKey)
	tomtom := NewAlias(domain.ProviderTomTom, engine, creds.TomTomAPIKey)

	for _, a := range []*Alias{google, tomtom} {
		logger.Info("provider registered", "provider", a.ID(), "credentials_configured", a.HasCredentials())
	}
	return NewRegistry(engine, google, tomtom)
}

// Lookup returns the provider registered under id.
func (r *Registry) Lookup(id domain.ProviderID) (domain.Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// IDs returns the registered identities in sorted order.
func (r *Registry) IDs() []domain.ProviderID {
	ids := make([]domain.ProviderID, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len reports the number of registered providers.
func (r *Registry) Len() int { return len(r.providers) }
