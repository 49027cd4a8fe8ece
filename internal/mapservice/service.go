// Package mapservice routes map lookups to a provider chosen per request or
// by configuration.
package mapservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/maps-api-service/internal/domain"
	"github.com/couchcryptid/maps-api-service/internal/observability"
	"github.com/couchcryptid/maps-api-service/internal/provider"
)

// Sink is a named lookup journal destination.
type Sink struct {
	Name     string
	Recorder domain.LookupRecorder
}

// Option configures a Service.
type Option func(*Service)

// WithSinks journals every successful lookup to the given sinks.
func WithSinks(sinks ...Sink) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sinks...) }
}

// WithJournalTimeout bounds how long one sink write may hold up a lookup.
func WithJournalTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.journalTimeout = d
		}
	}
}

// DefaultJournalTimeout is the per-sink write budget when none is configured.
const DefaultJournalTimeout = 250 * time.Millisecond

// unknownProvider labels lookups whose provider name did not resolve, so
// client-supplied names never become metric series.
const unknownProvider = "unknown"

// Service validates requests, resolves a provider, and delegates.
// It holds no mutable state after construction.
type Service struct {
	registry        *provider.Registry
	defaultProvider domain.ProviderID
	sinks           []Sink
	journalTimeout  time.Duration
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// New creates a Service. An unregistered default provider is replaced by mock
// with a warning rather than failing startup.
func New(registry *provider.Registry, defaultName string, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		registry:        registry,
		defaultProvider: domain.ProviderID(defaultName),
		journalTimeout:  DefaultJournalTimeout,
		logger:          logger,
		metrics:         metrics,
	}
	if _, ok := registry.Lookup(s.defaultProvider); !ok {
		logger.Warn("default map provider not registered, falling back to mock",
			"configured", defaultName, "available", registry.IDs())
		s.defaultProvider = domain.ProviderMock
		metrics.DefaultFallback.Set(1)
	} else {
		metrics.DefaultFallback.Set(0)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultProvider returns the identity used when a request names none.
func (s *Service) DefaultProvider() domain.ProviderID { return s.defaultProvider }

// CheckReadiness reports whether the default provider can serve requests.
func (s *Service) CheckReadiness(_ context.Context) error {
	if _, ok := s.registry.Lookup(s.defaultProvider); !ok {
		return errors.New("no default map provider")
	}
	return nil
}

// Geocode resolves an address through the named or default provider.
func (s *Service) Geocode(ctx context.Context, address, providerName string) (domain.GeocodingResult, error) {
	if address == "" {
		return domain.GeocodingResult{}, domain.InvalidInput("Address is required")
	}
	p, err := s.resolve(providerName)
	if err != nil {
		s.observe(domain.OpGeocode, unknownProvider, err)
		return domain.GeocodingResult{}, err
	}

	s.logCall(p, domain.OpGeocode)
	start := time.Now()
	result, err := p.Geocode(ctx, address)
	s.metrics.LookupDuration.WithLabelValues(string(domain.OpGeocode)).Observe(time.Since(start).Seconds())
	s.observe(domain.OpGeocode, string(p.ID()), err)
	if err != nil {
		return domain.GeocodingResult{}, err
	}

	s.journal(ctx, domain.NewGeocodeEvent(address, result))
	return result, nil
}

// ReverseGeocode resolves a coordinate through the named or default provider.
func (s *Service) ReverseGeocode(ctx context.Context, in domain.CoordinateInput, providerName string) (domain.ReverseGeocodingResult, error) {
	if !in.Complete() {
		return domain.ReverseGeocodingResult{}, domain.InvalidInput("Valid coordinates are required")
	}
	c := in.Coordinate()
	if err := domain.ValidateRange(c); err != nil {
		return domain.ReverseGeocodingResult{}, err
	}
	p, err := s.resolve(providerName)
	if err != nil {
		s.observe(domain.OpReverseGeocode, unknownProvider, err)
		return domain.ReverseGeocodingResult{}, err
	}

	s.logCall(p, domain.OpReverseGeocode)
	start := time.Now()
	result, err := p.ReverseGeocode(ctx, c)
	s.metrics.LookupDuration.WithLabelValues(string(domain.OpReverseGeocode)).Observe(time.Since(start).Seconds())
	s.observe(domain.OpReverseGeocode, string(p.ID()), err)
	if err != nil {
		return domain.ReverseGeocodingResult{}, err
	}

	s.journal(ctx, domain.NewReverseGeocodeEvent(result))
	return result, nil
}

// CalculateDistance estimates distance and duration between two points.
func (s *Service) CalculateDistance(ctx context.Context, origin, destination *domain.CoordinateInput, providerName string) (domain.DistanceResult, error) {
	if origin == nil || destination == nil || !origin.Complete() || !destination.Complete() {
		return domain.DistanceResult{}, domain.InvalidInput("Origin and destination coordinates are required")
	}
	o, d := origin.Coordinate(), destination.Coordinate()
	if err := domain.ValidateRange(o); err != nil {
		return domain.DistanceResult{}, err
	}
	if err := domain.ValidateRange(d); err != nil {
		return domain.DistanceResult{}, err
	}
	p, err := s.resolve(providerName)
	if err != nil {
		s.observe(domain.OpDistance, unknownProvider, err)
		return domain.DistanceResult{}, err
	}

	s.logCall(p, domain.OpDistance)
	start := time.Now()
	result, err := p.CalculateDistance(ctx, o, d)
	s.metrics.LookupDuration.WithLabelValues(string(domain.OpDistance)).Observe(time.Since(start).Seconds())
	s.observe(domain.OpDistance, string(p.ID()), err)
	if err != nil {
		return domain.DistanceResult{}, err
	}

	s.journal(ctx, domain.NewDistanceEvent(result))
	return result, nil
}

// resolve picks the explicitly named provider, else the default. An unknown
// explicit name is a client error, never a silent fallback.
func (s *Service) resolve(name string) (domain.Provider, error) {
	id := s.defaultProvider
	if name != "" {
		id = domain.ProviderID(name)
	}
	p, ok := s.registry.Lookup(id)
	if !ok {
		return nil, domain.InvalidInput("Provider not found: %s", id)
	}
	return p, nil
}

// logCall records one provider call under the identity that serves it.
func (s *Service) logCall(p domain.Provider, op domain.Operation) {
	s.logger.Debug("provider call", "provider", p.ID(), "operation", op)
}

func (s *Service) observe(op domain.Operation, providerID string, err error) {
	outcome := "success"
	switch {
	case domain.IsInvalidInput(err):
		outcome = "invalid_input"
	case err != nil:
		outcome = "error"
	}
	s.metrics.LookupsTotal.WithLabelValues(string(op), providerID, outcome).Inc()
}

// journal records the event to every sink. Sink failures never reach the
// caller, and each write is cut off after journalTimeout.
func (s *Service) journal(ctx context.Context, event domain.LookupEvent) {
	for _, sink := range s.sinks {
		if err := s.record(ctx, sink, event); err != nil {
			s.metrics.JournalErrors.WithLabelValues(sink.Name).Inc()
			s.logger.Warn("lookup journal write failed",
				"sink", sink.Name, "event_id", event.ID, "operation", event.Operation, "error", err)
		}
	}
}

// record runs one sink write under the journal budget. A recorder that
// ignores its context is abandoned once the budget expires.
func (s *Service) record(ctx context.Context, sink Sink, event domain.LookupEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.journalTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sink.Recorder.Record(ctx, event) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("journal write to %s: %w", sink.Name, ctx.Err())
	}
}

// NewStandalone builds a Service over the default registry with no
// credentials, no journal, and metrics on a private registry. Offline tools use it.
func NewStandalone(logger *slog.Logger) (*Service, error) {
	registry, err := provider.NewDefaultRegistry(provider.Credentials{}, logger)
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	return New(registry, string(domain.ProviderMock), logger, metrics), nil
}
