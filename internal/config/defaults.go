package config

import (
	"time"

	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/database"
)

// DefaultSecret is only meant for local development
const DefaultSecret = "storefront-dev-secret"

// DefaultConfig returns a configuration that runs without any external service
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Port:           "8080",
			RequestTimeout: 30 * time.Second,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   45 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Requests: 100,
				Window:   time.Minute,
			},
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Port:    "9090",
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Driver:     StorageMemory,
			SQLitePath: "storefront.db",
			TTL:        30 * 24 * time.Hour,
		},
		Catalog: CatalogConfig{
			Source: CatalogStatic,
		},
		Database: database.Config{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "storefront",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   kafka.TopicCartEvents,
			GroupID: "storefront-activity",
		},
		Tracing: TracingConfig{
			ServiceName: "storefront",
			Endpoint:    "http://localhost:14268/api/traces",
			SampleRatio: 1,
		},
		Session: SessionConfig{
			Secret:        DefaultSecret,
			TokenTTL:      7 * 24 * time.Hour,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Search: SearchConfig{
			Delay:     300 * time.Millisecond,
			SlowDelay: 500 * time.Millisecond,
		},
		Notify: NotifyConfig{
			TTL: 5 * time.Second,
		},
	}
}
