package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Environments accepted by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	Environment     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Provider selection and credential placeholders.
	DefaultMapProvider string
	GoogleMapsAPIKey   string
	TomTomAPIKey       string

	// Per-process request rate limit. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// Lookup journal sinks. Both are optional. JournalTimeout bounds each
	// sink write on the request path.
	JournalTimeout   time.Duration
	JournalKafka     bool
	KafkaBrokers     []string
	KafkaLookupTopic string
	DatabaseURL      string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "0"), 64)
	if err != nil || rps < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "20"))
	if err != nil || burst <= 0 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	journalKafka, err := strconv.ParseBool(sharedcfg.EnvOrDefault("LOOKUP_JOURNAL_KAFKA", "false"))
	if err != nil {
		return nil, errors.New("invalid LOOKUP_JOURNAL_KAFKA")
	}

	journalTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("LOOKUP_JOURNAL_TIMEOUT", "250ms"))
	if err != nil || journalTimeout <= 0 {
		return nil, errors.New("invalid LOOKUP_JOURNAL_TIMEOUT")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":"+sharedcfg.EnvOrDefault("PORT", "3000")),
		Environment:     sharedcfg.EnvOrDefault("APP_ENV", EnvDevelopment),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DefaultMapProvider: sharedcfg.EnvOrDefault("DEFAULT_MAP_PROVIDER", "mock"),
		GoogleMapsAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		TomTomAPIKey:       os.Getenv("TOMTOM_API_KEY"),

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		JournalTimeout:   journalTimeout,
		JournalKafka:     journalKafka,
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaLookupTopic: sharedcfg.EnvOrDefault("KAFKA_LOOKUP_TOPIC", "map-lookups"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
	}

	switch cfg.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q", cfg.Environment)
	}
	if cfg.JournalKafka && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when LOOKUP_JOURNAL_KAFKA is true")
	}
	if cfg.JournalKafka && cfg.KafkaLookupTopic == "" {
		return nil, errors.New("KAFKA_LOOKUP_TOPIC is required when LOOKUP_JOURNAL_KAFKA is true")
	}

	return cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }
