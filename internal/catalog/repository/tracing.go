package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingCatalogRepository wraps a CatalogRepository with spans
type TracingCatalogRepository struct {
	next domain.CatalogRepository
}

// NewTracingCatalogRepository creates a new repository with tracing
func NewTracingCatalogRepository(next domain.CatalogRepository) *TracingCatalogRepository {
	return &TracingCatalogRepository{next: next}
}

// ListCategories with tracing
func (r *TracingCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "repository.ListCategories")
	defer span.End()

	categories, err := r.next.ListCategories(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(categories)))
	return categories, nil
}

// ListProducts with tracing
func (r *TracingCatalogRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.ListProducts",
		trace.WithAttributes(
			attribute.String("query.category", category),
		),
	)
	defer span.End()

	products, err := r.next.ListProducts(ctx, category)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// FindProduct with tracing
func (r *TracingCatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindProduct",
		trace.WithAttributes(
			attribute.String("product.id", id),
		),
	)
	defer span.End()

	product, err := r.next.FindProduct(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.String("product.category", product.Category),
		attribute.Int("product.price", product.Price),
	)
	return product, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
