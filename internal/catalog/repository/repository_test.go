package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tair/storefront/internal/catalog/domain"
)

func TestStaticCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaticCatalogRepository(nil)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	scanners, err := repo.ListProducts(ctx, domain.CategoryScanners)
	require.NoError(t, err)
	assert.Len(t, scanners, 6)

	all, err := repo.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 36)

	_, err = repo.ListProducts(ctx, "store")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	p, err := repo.FindProduct(ctx, "equipment-3")
	require.NoError(t, err)
	assert.Equal(t, 50000, p.Price)

	_, err = repo.FindProduct(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestStaticCatalogRepositoryCopiesProducts(t *testing.T) {
	ctx := context.Background()
	repo := NewStaticCatalogRepository(nil)

	list, err := repo.ListProducts(ctx, domain.CategoryLabels)
	require.NoError(t, err)
	list[0].Name = "changed"

	again, err := repo.ListProducts(ctx, domain.CategoryLabels)
	require.NoError(t, err)
	assert.Equal(t, "ملصقات حرارية", again[0].Name)
}

func TestTracingCatalogRepositoryRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	repo := NewTracingCatalogRepository(NewStaticCatalogRepository(nil))

	_, err := repo.FindProduct(ctx, "printers-2")
	require.NoError(t, err)
	_, err = repo.FindProduct(ctx, "missing")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "repository.FindProduct", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)

	loaded, err := domain.Load(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, domain.Default().Keys(), loaded.Keys())
	assert.Len(t, loaded.All(), 36)
}
