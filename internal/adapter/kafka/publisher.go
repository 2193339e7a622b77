package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/config"
	"github.com/civicsignal/econdash/internal/domain"
)

// Publisher streams normalized year results to a Kafka topic so downstream
// analytics can consume everything the dashboard fetches. It implements
// session.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSnapshot serializes and publishes one year result.
func (p *Publisher) PublishSnapshot(ctx context.Context, source catalog.Source, result domain.YearResult) error {
	msg, err := serializeToMessage(source, result)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a year result into a Kafka message keyed
// source|location|year so snapshots of the same selection land in the same
// partition.
func serializeToMessage(source catalog.Source, result domain.YearResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize year result: %w", err)
	}
	key := strings.Join([]string{string(source), result.Location, result.Year}, "|")
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(source)},
			{Key: "fetched_at", Value: []byte(result.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
