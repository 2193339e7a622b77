//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/civicsignal/econdash/internal/adapter/kafka"
	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/config"
	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/observability"
	"github.com/civicsignal/econdash/internal/session"
)

const testSnapshotTopic = "test-econdash-snapshots"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic on the test broker.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic")
}

// snapshotFetcher serves one canned year result per fetch.
type snapshotFetcher struct{}

func (snapshotFetcher) Source() catalog.Source { return catalog.SourceCensus }

func (snapshotFetcher) FetchYear(ctx context.Context, loc domain.Location, year string, codes []string) (domain.YearResult, error) {
	vars := make([]domain.ObservedVariable, 0, len(codes))
	for _, code := range codes {
		v := 12345.0
		vars = append(vars, domain.ObservedVariable{
			Code: code, Name: code, Category: "Test",
			RawValue: &v, FormattedValue: "12,345",
		})
	}
	return domain.YearResult{
		Year:      year,
		Location:  loc.Name,
		FetchedAt: domain.Now(),
		Variables: vars,
	}, nil
}

// TestSnapshotPublishConsume verifies the publisher end to end: a fetch
// through the session service lands one message per year on the snapshot
// topic, keyed and headed as serialized.
func TestSnapshotPublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSnapshotTopic: testSnapshotTopic,
	}
	publisher := kafka.NewPublisher(cfg, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	svc := session.NewService([]domain.Fetcher{snapshotFetcher{}}, publisher, observability.NewMetricsForTesting(), discardLogger())

	loc := domain.Location{StateCode: "06", CountyFIPS: "037", Name: "Los Angeles County"}
	series, err := svc.FetchYears(ctx, catalog.SourceCensus, loc, []string{"2019", "2020"}, []string{"B01003_001E"}, nil)
	require.NoError(t, err)
	require.Len(t, series, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	seen := make(map[string]domain.YearResult, 2)
	for len(seen) < 2 {
		readCtx, cancelRead := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		cancelRead()
		require.NoError(t, err, "read from snapshot topic")

		var result domain.YearResult
		require.NoError(t, json.Unmarshal(msg.Value, &result))
		seen[string(msg.Key)] = result

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "census", headers["source"])
		assert.NotEmpty(t, headers["fetched_at"])
	}

	first, ok := seen["census|Los Angeles County|2019"]
	require.True(t, ok, "2019 snapshot missing, saw keys %v", seen)
	assert.Equal(t, "2019", first.Year)
	require.Len(t, first.Variables, 1)
	assert.Equal(t, "12,345", first.Variables[0].FormattedValue)

	second, ok := seen["census|Los Angeles County|2020"]
	require.True(t, ok)
	assert.Equal(t, "2020", second.Year)
}
