package mapservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/maps-api-service/internal/domain"
	"github.com/couchcryptid/maps-api-service/internal/observability"
	"github.com/couchcryptid/maps-api-service/internal/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	r, err := provider.NewDefaultRegistry(provider.Credentials{}, discardLogger())
	require.NoError(t, err)
	return r
}

func newService(t *testing.T, defaultName string, opts ...Option) (*Service, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	return New(newRegistry(t), defaultName, discardLogger(), m, opts...), m
}

func input(lat, lon float64) *domain.CoordinateInput {
	in := domain.NewCoordinateInput(lat, lon)
	return &in
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.LookupEvent
	err    error
}

func (r *recordingSink) Record(_ context.Context, e domain.LookupEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func TestNew_UnknownDefaultFallsBackToMock(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := observability.NewMetricsForTesting()

	svc := New(newRegistry(t), "here", logger, m)

	assert.Equal(t, domain.ProviderMock, svc.DefaultProvider())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "configured=here")
	assert.InDelta(t, 1, testutil.ToFloat64(m.DefaultFallback), 0)
	require.NoError(t, svc.CheckReadiness(context.Background()))

	res, err := svc.Geocode(context.Background(), "123 Main St", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderMock, res.ProviderID)
}

func TestNew_RegisteredDefault(t *testing.T) {
	svc, m := newService(t, "tomtom")

	assert.Equal(t, domain.ProviderTomTom, svc.DefaultProvider())
	assert.Zero(t, testutil.ToFloat64(m.DefaultFallback))

	res, err := svc.Geocode(context.Background(), "123 Main St", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderTomTom, res.ProviderID)
}

func TestGeocode(t *testing.T) {
	svc, m := newService(t, "mock")

	res, err := svc.Geocode(context.Background(), "123 Main St", "google")
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderGoogle, res.ProviderID)
	assert.NotEmpty(t, res.Address.FormattedAddress)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("geocode", "google", "success")), 0)
}

func TestGeocode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		provider string
		wantMsg  string
	}{
		{"empty address", "", "", "Address is required"},
		{"unknown provider", "123 Main St", "bing", "Provider not found: bing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, "mock")
			_, err := svc.Geocode(context.Background(), tt.address, tt.provider)
			require.Error(t, err)
			assert.True(t, domain.IsInvalidInput(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestExplicitProviderBeatsDefault(t *testing.T) {
	svc, _ := newService(t, "google")

	res, err := svc.CalculateDistance(context.Background(), input(0, 0), input(0, 1), "tomtom")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderTomTom, res.ProviderID)
}

func TestUnknownExplicitProviderDoesNotFallBack(t *testing.T) {
	svc, m := newService(t, "mock")

	_, err := svc.ReverseGeocode(context.Background(), *input(10, 10), "bing")
	require.Error(t, err)
	assert.Equal(t, "Provider not found: bing", err.Error())
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("reverse_geocode", "unknown", "invalid_input")), 0)
}

func TestUnknownProviderNames_ShareOneSeries(t *testing.T) {
	svc, m := newService(t, "mock")
	ctx := context.Background()

	for i := range 100 {
		_, err := svc.Geocode(ctx, "123 Main St", fmt.Sprintf("made-up-%d", i))
		require.Error(t, err)
	}
	_, err := svc.CalculateDistance(ctx, input(0, 0), input(0, 1), "made-up-0")
	require.Error(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.LookupsTotal))
	assert.InDelta(t, 100, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("geocode", "unknown", "invalid_input")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("distance", "unknown", "invalid_input")), 0)
}

func TestProviderCall_LoggedOnceUnderServingIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := New(newRegistry(t), "mock", logger, observability.NewMetricsForTesting())

	_, err := svc.Geocode(context.Background(), "123 Main St", "google")
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `msg="provider call"`))
	assert.Contains(t, out, "provider=google")
	assert.NotContains(t, out, "provider=mock")
}

func TestReverseGeocode_EchoesInput(t *testing.T) {
	svc, _ := newService(t, "mock")

	res, err := svc.ReverseGeocode(context.Background(), *input(37.7749, -122.4194), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Latitude: 37.7749, Longitude: -122.4194}, res.Coordinates)
}

func TestReverseGeocode_RangeChecksUseCorrectBounds(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantMsg string
	}{
		{"latitude 100 rejected", 100, 0, "Latitude must be between -90 and 90"},
		{"latitude 45 longitude 120 accepted", 45, 120, ""},
		{"latitude -95 rejected", -95, 0, "Latitude must be between -90 and 90"},
		{"longitude -181 rejected", 0, -181, "Longitude must be between -180 and 180"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, "mock")
			_, err := svc.ReverseGeocode(context.Background(), *input(tt.lat, tt.lon), "")
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsInvalidInput(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestReverseGeocode_MissingFields(t *testing.T) {
	svc, _ := newService(t, "mock")
	lat := 10.0

	_, err := svc.ReverseGeocode(context.Background(), domain.CoordinateInput{Latitude: &lat}, "")
	require.Error(t, err)
	assert.Equal(t, "Valid coordinates are required", err.Error())
}

func TestCalculateDistance(t *testing.T) {
	svc, _ := newService(t, "mock")

	res, err := svc.CalculateDistance(context.Background(), input(37.7749, -122.4194), input(34.0522, -118.2437), "")
	require.NoError(t, err)
	assert.Greater(t, res.Distance.Value, 350000.0)
	assert.Less(t, res.Distance.Value, 600000.0)
	assert.Equal(t, "meters", res.Distance.Unit)
	assert.Equal(t, "seconds", res.Duration.Unit)
}

func TestCalculateDistance_Errors(t *testing.T) {
	tests := []struct {
		name        string
		origin      *domain.CoordinateInput
		destination *domain.CoordinateInput
		wantMsg     string
	}{
		{"missing origin", nil, input(0, 0), "Origin and destination coordinates are required"},
		{"missing destination", input(0, 0), nil, "Origin and destination coordinates are required"},
		{"partial origin", &domain.CoordinateInput{}, input(0, 0), "Origin and destination coordinates are required"},
		{"origin latitude", input(91, 0), input(0, 0), "Latitude must be between -90 and 90"},
		{"destination longitude", input(0, 0), input(0, 190), "Longitude must be between -180 and 180"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, "mock")
			_, err := svc.CalculateDistance(context.Background(), tt.origin, tt.destination, "")
			require.Error(t, err)
			assert.True(t, domain.IsInvalidInput(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestProvidersAgreeExceptForTag(t *testing.T) {
	svc, _ := newService(t, "mock")
	ctx := context.Background()

	base, err := svc.Geocode(ctx, "1600 Amphitheatre Pkwy, Mountain View", "mock")
	require.NoError(t, err)
	baseDist, err := svc.CalculateDistance(ctx, input(51.5074, -0.1278), input(48.8566, 2.3522), "mock")
	require.NoError(t, err)

	for _, p := range []string{"google", "tomtom"} {
		got, err := svc.Geocode(ctx, "1600 Amphitheatre Pkwy, Mountain View", p)
		require.NoError(t, err)
		assert.Equal(t, base.Coordinates, got.Coordinates)
		assert.Equal(t, base.Address, got.Address)
		assert.Equal(t, domain.ProviderID(p), got.ProviderID)

		dist, err := svc.CalculateDistance(ctx, input(51.5074, -0.1278), input(48.8566, 2.3522), p)
		require.NoError(t, err)
		assert.Equal(t, baseDist.Distance, dist.Distance)
		assert.Equal(t, baseDist.Duration, dist.Duration)
	}
}

func TestJournal_RecordsSuccessfulLookups(t *testing.T) {
	at := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })

	sink := &recordingSink{}
	svc, _ := newService(t, "mock", WithSinks(Sink{Name: "memory", Recorder: sink}))
	ctx := context.Background()

	_, err := svc.Geocode(ctx, "123 Main St", "google")
	require.NoError(t, err)
	_, err = svc.ReverseGeocode(ctx, *input(1, 2), "")
	require.NoError(t, err)
	_, err = svc.CalculateDistance(ctx, input(0, 0), input(0, 1), "tomtom")
	require.NoError(t, err)
	_, err = svc.Geocode(ctx, "", "")
	require.Error(t, err)

	require.Len(t, sink.events, 3)
	assert.Equal(t, domain.OpGeocode, sink.events[0].Operation)
	assert.Equal(t, domain.ProviderGoogle, sink.events[0].Provider)
	assert.Equal(t, "123 Main St", sink.events[0].Query)
	assert.Equal(t, domain.OpReverseGeocode, sink.events[1].Operation)
	assert.Equal(t, domain.OpDistance, sink.events[2].Operation)
	assert.InDelta(t, 111195, sink.events[2].DistanceMeters, 0)
	for _, e := range sink.events {
		assert.Equal(t, at, e.RecordedAt)
	}
}

func TestJournal_FailureDoesNotFailLookup(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	svc, m := newService(t, "mock", WithSinks(Sink{Name: "kafka", Recorder: sink}))

	res, err := svc.Geocode(context.Background(), "123 Main St", "")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Address.FormattedAddress)
	assert.InDelta(t, 1, testutil.ToFloat64(m.JournalErrors.WithLabelValues("kafka")), 0)
}

// ctxBlockingSink waits for its context to end, like a writer stuck on a
// stalled broker.
type ctxBlockingSink struct{}

func (ctxBlockingSink) Record(ctx context.Context, _ domain.LookupEvent) error {
	<-ctx.Done()
	return ctx.Err()
}

// stuckSink ignores its context entirely until released.
type stuckSink struct{ release chan struct{} }

func (s stuckSink) Record(context.Context, domain.LookupEvent) error {
	<-s.release
	return nil
}

func TestJournal_SlowSinkDoesNotHoldLookup(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	tests := []struct {
		name string
		sink domain.LookupRecorder
	}{
		{"honours context", ctxBlockingSink{}},
		{"ignores context", stuckSink{release: release}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, "mock",
				WithSinks(Sink{Name: "kafka", Recorder: tt.sink}),
				WithJournalTimeout(20*time.Millisecond))

			start := time.Now()
			res, err := svc.Geocode(context.Background(), "123 Main St", "")
			elapsed := time.Since(start)

			require.NoError(t, err)
			assert.Equal(t, "946 123 Main St, Newport, OH 11946, USA", res.Address.FormattedAddress)
			assert.Less(t, elapsed, time.Second)
			assert.InDelta(t, 1, testutil.ToFloat64(m.JournalErrors.WithLabelValues("kafka")), 0)
		})
	}
}

func TestWithJournalTimeout_IgnoresNonPositive(t *testing.T) {
	svc, _ := newService(t, "mock", WithJournalTimeout(0))
	assert.Equal(t, DefaultJournalTimeout, svc.journalTimeout)
}

func TestNewStandalone(t *testing.T) {
	svc, err := NewStandalone(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderMock, svc.DefaultProvider())

	_, err = svc.Geocode(context.Background(), "123 Main St", "tomtom")
	require.NoError(t, err)
}

func TestConcurrentLookups(t *testing.T) {
	svc, _ := newService(t, "mock")
	want, err := svc.Geocode(context.Background(), "123 Main St", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Geocode(context.Background(), "123 Main St", "")
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
