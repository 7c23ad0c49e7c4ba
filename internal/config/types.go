package config

import (
	"time"

	"github.com/tair/storefront/pkg/database"
)

// Storage drivers for the cart "local storage"
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Catalog sources
const (
	CatalogStatic   = "static"
	CatalogPostgres = "postgres"
)

// Config is the top-level storefront configuration
type Config struct {
	Environment string          `koanf:"environment"`
	HTTP        HTTPConfig      `koanf:"http"`
	GRPC        GRPCConfig      `koanf:"grpc"`
	Log         LogConfig       `koanf:"log"`
	Storage     StorageConfig   `koanf:"storage"`
	Catalog     CatalogConfig   `koanf:"catalog"`
	Database    database.Config `koanf:"database"`
	Redis       RedisConfig     `koanf:"redis"`
	Kafka       KafkaConfig     `koanf:"kafka"`
	Tracing     TracingConfig   `koanf:"tracing"`
	Session     SessionConfig   `koanf:"session"`
	Search      SearchConfig    `koanf:"search"`
	Notify      NotifyConfig    `koanf:"notify"`
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

type HTTPConfig struct {
	Port           string          `koanf:"port"`
	RequestTimeout time.Duration   `koanf:"request_timeout"`
	ReadTimeout    time.Duration   `koanf:"read_timeout"`
	WriteTimeout   time.Duration   `koanf:"write_timeout"`
	AllowedOrigins []string        `koanf:"allowed_origins"`
	RateLimit      RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig limits /api requests per client address; the window is
// kept in redis.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type GRPCConfig struct {
	Enabled bool   `koanf:"enabled"`
	Port    string `koanf:"port"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// StorageConfig selects where carts are kept between requests
type StorageConfig struct {
	Driver     string        `koanf:"driver"`
	SQLitePath string        `koanf:"sqlite_path"`
	TTL        time.Duration `koanf:"ttl"`
}

// CatalogConfig selects where the catalog is read from. With Seed set, the
// built-in catalog is written to PostgreSQL at startup.
type CatalogConfig struct {
	Source string `koanf:"source"`
	Seed   bool   `koanf:"seed"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	ServiceName string  `koanf:"service_name"`
	Endpoint    string  `koanf:"endpoint"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

type SessionConfig struct {
	Secret        string        `koanf:"secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// SearchConfig holds the debounce delays; SlowDelay applies to single
// category pages.
type SearchConfig struct {
	Delay     time.Duration `koanf:"delay"`
	SlowDelay time.Duration `koanf:"slow_delay"`
}

type NotifyConfig struct {
	TTL time.Duration `koanf:"ttl"`
}
