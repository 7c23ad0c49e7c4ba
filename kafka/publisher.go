package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/pkg/logger"
)

// Publisher sends cart events to a topic
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "storefront"
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	// one session's events share a key; idempotence keeps retries from reordering them
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	config.Version = sarama.V2_6_0_0
	return config
}

// NewPublisher connects a synchronous producer to brokers
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := NewPublisherWithProducer(producer, topic)
	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", p.topic).
		Msg("Kafka publisher initialized")
	return p, nil
}

// NewPublisherWithProducer wraps an existing producer; an empty topic means
// TopicCartEvents.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	if topic == "" {
		topic = TopicCartEvents
	}
	return &Publisher{producer: producer, topic: topic}
}

// Publish sends a cart event keyed by session id, so one session's events stay
// ordered on a single partition
func (p *Publisher) Publish(ctx context.Context, event CartEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ctx, span := otel.Tracer("kafka-publisher").Start(ctx, "kafka.publish."+event.EventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("event.type", event.EventType),
			attribute.String("event.id", event.EventID),
			attribute.String("cart.session_id", event.SessionID),
		),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder("session_" + event.SessionID),
		Value:   sarama.ByteEncoder(payload),
		Headers: eventHeaders(ctx, event),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to send %s to Kafka: %w", event.EventType, err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)

	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("event_type", event.EventType).
		Str("session_id", event.SessionID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Cart event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
