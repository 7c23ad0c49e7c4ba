// Package config loads the storefront configuration: built-in defaults, then
// an optional YAML file, then STOREFRONT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Sections are separated by a
// double underscore: STOREFRONT_SESSION__IDLE_TTL sets session.idle_ttl.
const EnvPrefix = "STOREFRONT_"

// Load reads configuration from the given YAML file, when it exists, then
// overlays environment variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validStorageDrivers = map[string]bool{
	StorageMemory: true,
	StorageRedis:  true,
	StorageSQLite: true,
}

var validCatalogSources = map[string]bool{
	CatalogStatic:   true,
	CatalogPostgres: true,
}

// Validate checks that the configuration contains valid values
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("http.port is required"))
	}
	if c.GRPC.Enabled && c.GRPC.Port == "" {
		errs = append(errs, errors.New("grpc.port is required when grpc is enabled"))
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.Requests <= 0 || c.HTTP.RateLimit.Window <= 0 {
			errs = append(errs, errors.New("http.rate_limit requests and window must be positive"))
		}
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for http.rate_limit"))
		}
	}

	if !validStorageDrivers[c.Storage.Driver] {
		errs = append(errs, fmt.Errorf("invalid storage.driver %q: must be one of memory, redis, sqlite", c.Storage.Driver))
	}
	if c.Storage.Driver == StorageSQLite && c.Storage.SQLitePath == "" {
		errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
	}
	if c.Storage.Driver == StorageRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required for the redis driver"))
	}

	if !validCatalogSources[c.Catalog.Source] {
		errs = append(errs, fmt.Errorf("invalid catalog.source %q: must be one of static, postgres", c.Catalog.Source))
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka.topic is required when kafka is enabled"))
		}
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %v", c.Tracing.SampleRatio))
	}

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is required"))
	} else if c.Session.Secret == DefaultSecret && !c.IsDevelopment() {
		errs = append(errs, errors.New("session.secret must be changed outside development"))
	}
	if c.Session.TokenTTL <= 0 || c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session durations must be positive"))
	}

	if c.Search.Delay < 0 || c.Search.SlowDelay < 0 {
		errs = append(errs, errors.New("search delays must not be negative"))
	}
	if c.Notify.TTL <= 0 {
		errs = append(errs, errors.New("notify.ttl must be positive"))
	}

	return errors.Join(errs...)
}
