package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/catalog/repository"
)

func TestCatalogQueries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStaticCatalogRepository(nil)

	categories, err := NewListCategoriesHandler(repo).Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryPrinters, categories[0].Link)

	products, err := NewListProductsHandler(repo).Handle(ctx, ListProductsQuery{Category: domain.CategoryAssemblies})
	require.NoError(t, err)
	assert.Len(t, products, 6)

	_, err = NewListProductsHandler(repo).Handle(ctx, ListProductsQuery{Category: "unknown"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	get := NewGetProductHandler(repo)
	p, err := get.Handle(ctx, GetProductQuery{ProductID: "assemblies-1"})
	require.NoError(t, err)
	assert.Equal(t, "تجميعة احترافية", p.Name)

	_, err = get.Handle(ctx, GetProductQuery{})
	assert.Error(t, err)

	_, err = get.Handle(ctx, GetProductQuery{ProductID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
