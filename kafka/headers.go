package kafka

import (
	"context"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Record header keys set on every cart event
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// producerHeaders carries trace context into the headers of an outgoing record
type producerHeaders struct {
	headers *[]sarama.RecordHeader
}

func (h producerHeaders) Get(key string) string {
	for _, rh := range *h.headers {
		if string(rh.Key) == key {
			return string(rh.Value)
		}
	}
	return ""
}

func (h producerHeaders) Set(key, value string) {
	*h.headers = append(*h.headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (h producerHeaders) Keys() []string {
	keys := make([]string, 0, len(*h.headers))
	for _, rh := range *h.headers {
		keys = append(keys, string(rh.Key))
	}
	return keys
}

// consumerHeaders reads trace context from the headers of a consumed record
type consumerHeaders []*sarama.RecordHeader

func (h consumerHeaders) Get(key string) string {
	for _, rh := range h {
		if rh != nil && string(rh.Key) == key {
			return string(rh.Value)
		}
	}
	return ""
}

// Set is never used on consumed records
func (h consumerHeaders) Set(string, string) {}

func (h consumerHeaders) Keys() []string {
	keys := make([]string, 0, len(h))
	for _, rh := range h {
		if rh != nil {
			keys = append(keys, string(rh.Key))
		}
	}
	return keys
}

var (
	_ propagation.TextMapCarrier = producerHeaders{}
	_ propagation.TextMapCarrier = consumerHeaders{}
)

// eventHeaders builds the headers of an outgoing cart event
func eventHeaders(ctx context.Context, event CartEvent) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderEventType), Value: []byte(event.EventType)},
		{Key: []byte(HeaderEventID), Value: []byte(event.EventID)},
	}
	otel.GetTextMapPropagator().Inject(ctx, producerHeaders{headers: &headers})
	return headers
}

// extractContext returns ctx extended with the trace context of a consumed record
func extractContext(ctx context.Context, message *sarama.ConsumerMessage) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, consumerHeaders(message.Headers))
}
