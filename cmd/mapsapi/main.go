package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/maps-api-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/maps-api-service/internal/adapter/kafka"
	"github.com/couchcryptid/maps-api-service/internal/adapter/postgres"
	"github.com/couchcryptid/maps-api-service/internal/config"
	"github.com/couchcryptid/maps-api-service/internal/mapservice"
	"github.com/couchcryptid/maps-api-service/internal/observability"
	"github.com/couchcryptid/maps-api-service/internal/provider"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := provider.NewDefaultRegistry(provider.Credentials{
		GoogleMapsAPIKey: cfg.GoogleMapsAPIKey,
		TomTomAPIKey:     cfg.TomTomAPIKey,
	}, logger)
	if err != nil {
		logger.Error("failed to build provider registry", "error", err)
		os.Exit(1)
	}

	// Lookup journal sinks are optional and closed after the server drains.
	var sinks []mapservice.Sink
	var closers []io.Closer

	if cfg.JournalKafka {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		sinks = append(sinks, mapservice.Sink{Name: "kafka", Recorder: publisher})
		closers = append(closers, publisher)
	}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open lookup journal database", "error", err)
			os.Exit(1)
		}
		journal := postgres.NewJournal(db)
		if err := journal.InitSchema(ctx); err != nil {
			logger.Error("failed to init lookup journal schema", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, mapservice.Sink{Name: "postgres", Recorder: journal})
		closers = append(closers, db)
		logger.Info("postgres lookup journal enabled")
	}

	svc := mapservice.New(registry, cfg.DefaultMapProvider, logger, metrics, mapservice.WithSinks(sinks...),
		mapservice.WithJournalTimeout(cfg.JournalTimeout))
	logger.Info("map service ready", "default_provider", svc.DefaultProvider(), "environment", cfg.Environment)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, httpadapter.Options{
		Production:     cfg.IsProduction(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("journal close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
