//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/catalog/usecase/query"
	"github.com/tair/storefront/internal/config"
	httpDelivery "github.com/tair/storefront/internal/storefront/delivery/http"
	"github.com/tair/storefront/internal/storefront"
)

// Wire sets
var InfrastructureSet = wire.NewSet(
	ProvideStorage,
	ProvideHealthChecks,
	ProvideCatalogRepository,
	ProvideEventPublisher,
	ProvideIssuer,
	ProvideRateLimiter,
)

var QueryHandlerSet = wire.NewSet(
	query.NewListCategoriesHandler,
	query.NewListProductsHandler,
	query.NewGetProductHandler,
)

var StorefrontSet = wire.NewSet(
	ProvideCatalog,
	ProvideCartMetrics,
	ProvideGRPCMetrics,
	ProvideServiceConfig,
	storefront.NewService,
	httpDelivery.NewStorefrontHandler,
	NewApp,
)

// InitializeApp initializes the application with all dependencies
func InitializeApp(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, func(), error) {
	wire.Build(
		InfrastructureSet,
		QueryHandlerSet,
		StorefrontSet,
	)
	return nil, nil, nil
}
