package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/pkg/logger"
)

var (
	errMissingEventType = errors.New("message without event_type header")
	errNoHandler        = errors.New("no handler registered")
)

// EventHandler handles one decoded cart event
type EventHandler func(ctx context.Context, event CartEvent) error

// Consumer reads cart events as a member of a consumer group and routes them
// by their event_type header
type Consumer struct {
	group   sarama.ConsumerGroup
	groupID string
	topics  []string

	mu       sync.RWMutex
	handlers map[string]EventHandler
}

func consumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "storefront-activity"
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategySticky()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true
	return config
}

// NewConsumer joins groupID on brokers
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	group, err := sarama.NewConsumerGroup(brokers, groupID, consumerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return &Consumer{
		group:    group,
		groupID:  groupID,
		topics:   topics,
		handlers: make(map[string]EventHandler),
	}, nil
}

// RegisterHandler routes events of eventType to handler, replacing any
// previous one
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers == nil {
		c.handlers = make(map[string]EventHandler)
	}
	c.handlers[eventType] = handler
}

// Start consumes in the background until ctx is cancelled or the consumer is
// closed
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{consumer: c}

	go func() {
		for {
			err := c.group.Consume(ctx, c.topics, handler)
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Consumer group session ended")
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			logger.Logger.Error().Err(err).Str("group_id", c.groupID).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")
	return nil
}

// Close leaves the consumer group
func (c *Consumer) Close() error {
	if c.group == nil {
		return nil
	}
	return c.group.Close()
}

func (c *Consumer) handler(eventType string) (EventHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[eventType]
	return h, ok
}

// dispatch decodes message and runs the handler registered for its event type
func (c *Consumer) dispatch(ctx context.Context, message *sarama.ConsumerMessage) error {
	headers := consumerHeaders(message.Headers)
	eventType := headers.Get(HeaderEventType)

	ctx, span := otel.Tracer("kafka-consumer").Start(extractContext(ctx, message), "kafka.consume."+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.id", headers.Get(HeaderEventID)),
		),
	)
	defer span.End()

	err := c.handle(ctx, eventType, message.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Consumer) handle(ctx context.Context, eventType string, value []byte) error {
	if eventType == "" {
		return errMissingEventType
	}
	handler, ok := c.handler(eventType)
	if !ok {
		return fmt.Errorf("%w for %s", errNoHandler, eventType)
	}

	var event CartEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	if err := handler(ctx, event); err != nil {
		return fmt.Errorf("failed to handle %s: %w", eventType, err)
	}
	return nil
}

// groupHandler implements sarama.ConsumerGroupHandler. Events that cannot be
// handled are logged and committed; redelivery would not fix them.
type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.consumer.dispatch(session.Context(), message); err != nil {
				logger.Logger.Warn().
					Err(err).
					Str("topic", message.Topic).
					Int32("partition", message.Partition).
					Int64("offset", message.Offset).
					Msg("Skipping cart event")
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
