package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/maps-api-service/internal/config"
	"github.com/couchcryptid/maps-api-service/internal/domain"
)

// Publisher journals lookup events to a Kafka topic.
// It implements domain.LookupRecorder.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured lookup topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaLookupTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info("kafka lookup journal enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaLookupTopic)
	return &Publisher{writer: w, logger: logger}
}

// Record publishes one event keyed by its ID so replays land on one partition.
func (p *Publisher) Record(ctx context.Context, event domain.LookupEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish lookup event %s: %w", event.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a LookupEvent into a Kafka message.
func serializeToMessage(event domain.LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "operation", Value: []byte(event.Operation)},
			{Key: "provider", Value: []byte(event.Provider)},
			{Key: "recorded_at", Value: []byte(event.RecordedAt.Format(time.RFC3339))},
		},
	}, nil
}
