package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/maps-api-service/internal/observability"
)

// Options tunes the HTTP surface.
type Options struct {
	// Production hides internal error details from clients.
	Production bool

	// RateLimitRPS caps /api requests per second across all clients. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server exposes the maps API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api/maps routes, /health,
// /healthz, /readyz, and /metrics.
func NewServer(addr string, maps MapService, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	h := &mapsHandler{maps: maps, production: opts.Production, logger: logger}
	api := rateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger, metrics)

	mux.Handle("POST /api/maps/geocode", api(http.HandlerFunc(h.geocode)))
	mux.Handle("POST /api/maps/reverse-geocode", api(http.HandlerFunc(h.reverseGeocode)))
	mux.Handle("POST /api/maps/distance", api(http.HandlerFunc(h.distance)))

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", h.notFound)

	var handler http.Handler = mux
	handler = cors(handler)
	handler = securityHeaders(handler)
	handler = recoverer(h, handler)
	handler = requestLogger(logger, metrics, handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
