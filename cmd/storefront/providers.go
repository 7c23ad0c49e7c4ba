package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tair/storefront/internal/cart"
	"github.com/tair/storefront/internal/cart/storage"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/catalog/repository"
	"github.com/tair/storefront/internal/config"
	grpcDelivery "github.com/tair/storefront/internal/storefront/delivery/grpc"
	httpDelivery "github.com/tair/storefront/internal/storefront/delivery/http"
	"github.com/tair/storefront/internal/storefront"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/database"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/session"
)

// App is everything the serve command runs
type App struct {
	Config      *config.Config
	Service     *storefront.Service
	Handler     *httpDelivery.StorefrontHandler
	GRPCMetrics *grpcDelivery.Metrics
	Checks      []httpDelivery.HealthCheck
	Limiter     httpDelivery.Limiter
}

// NewApp assembles the application
func NewApp(
	cfg *config.Config,
	service *storefront.Service,
	handler *httpDelivery.StorefrontHandler,
	grpcMetrics *grpcDelivery.Metrics,
	checks []httpDelivery.HealthCheck,
	limiter httpDelivery.Limiter,
) *App {
	return &App{
		Config:      cfg,
		Service:     service,
		Handler:     handler,
		GRPCMetrics: grpcMetrics,
		Checks:      checks,
		Limiter:     limiter,
	}
}

// GRPCProbes converts the health checks for the gRPC health service
func (a *App) GRPCProbes() map[string]grpcDelivery.Probe {
	probes := make(map[string]grpcDelivery.Probe, len(a.Checks))
	for _, check := range a.Checks {
		probes[check.Name] = check.Ping
	}
	return probes
}

// ProvideStorage opens the configured cart storage backend
func ProvideStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Logger.Info().Str("addr", cfg.Redis.Addr).Msg("Cart storage: redis")
		return storage.NewRedisStorage(client, "storefront:", cfg.Storage.TTL), func() { client.Close() }, nil

	case config.StorageSQLite:
		store, err := storage.OpenSQLiteStorage(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Logger.Info().Str("path", cfg.Storage.SQLitePath).Msg("Cart storage: sqlite")
		return store, func() { store.Close() }, nil

	default:
		logger.Logger.Warn().Msg("Cart storage: memory, carts are lost on restart")
		return storage.NewMemoryStorage(), func() {}, nil
	}
}

// ProvideRateLimiter connects the request limiter to redis when rate limiting
// is enabled; otherwise requests are not limited.
func ProvideRateLimiter(ctx context.Context, cfg *config.Config) (httpDelivery.Limiter, func(), error) {
	if !cfg.HTTP.RateLimit.Enabled {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Logger.Info().
		Int("requests", cfg.HTTP.RateLimit.Requests).
		Dur("window", cfg.HTTP.RateLimit.Window).
		Msg("Rate limiting enabled")
	limiter := httpDelivery.NewRedisRateLimiter(client, "storefront:", cfg.HTTP.RateLimit.Requests, cfg.HTTP.RateLimit.Window)
	return limiter, func() { client.Close() }, nil
}

// ProvideHealthChecks probes the storage backend when it supports it
func ProvideHealthChecks(store storage.Storage) []httpDelivery.HealthCheck {
	var checks []httpDelivery.HealthCheck
	if p, ok := store.(storage.Pinger); ok {
		checks = append(checks, httpDelivery.HealthCheck{Name: "storage", Ping: p.Ping})
	}
	return checks
}

// ProvideCatalogRepository opens the configured catalog source, traced
func ProvideCatalogRepository(ctx context.Context, cfg *config.Config) (catalog.CatalogRepository, func(), error) {
	if cfg.Catalog.Source != config.CatalogPostgres {
		return repository.NewTracingCatalogRepository(repository.NewStaticCatalogRepository(nil)), func() {}, nil
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	cleanup := func() { sqlDB.Close() }

	repo := repository.NewGormCatalogRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if cfg.Catalog.Seed {
		if err := repo.Seed(ctx, catalog.Default()); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Logger.Info().Msg("Catalog seeded")
	}

	return repository.NewTracingCatalogRepository(repo), cleanup, nil
}

// ProvideCatalog loads the catalog served by the shop
func ProvideCatalog(ctx context.Context, repo catalog.CatalogRepository) (*catalog.Catalog, error) {
	c, err := catalog.Load(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Logger.Info().
		Int("categories", len(c.Keys())).
		Int("products", len(c.All())).
		Msg("Catalog loaded")
	return c, nil
}

// ProvideIssuer creates the session token issuer
func ProvideIssuer(cfg *config.Config) (*session.Issuer, error) {
	return session.NewIssuer(cfg.Session.Secret, cfg.Session.TokenTTL)
}

// ProvideEventPublisher connects to Kafka when it is enabled; otherwise cart
// events are not published.
func ProvideEventPublisher(cfg *config.Config) (cart.EventPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}
	return publisher, func() { publisher.Close() }, nil
}

// ProvideCartMetrics creates the cart collectors
func ProvideCartMetrics(reg prometheus.Registerer) *cart.Metrics {
	return cart.NewMetrics(reg)
}

// ProvideGRPCMetrics creates the gRPC collectors
func ProvideGRPCMetrics(reg prometheus.Registerer) *grpcDelivery.Metrics {
	return grpcDelivery.NewMetrics(reg)
}

// ProvideServiceConfig extracts the session settings
func ProvideServiceConfig(cfg *config.Config) storefront.Config {
	return storefront.Config{
		IdleTTL:     cfg.Session.IdleTTL,
		NotifyTTL:   cfg.Notify.TTL,
		SearchDelay: cfg.Search.Delay,
		SlowDelay:   cfg.Search.SlowDelay,
	}
}
