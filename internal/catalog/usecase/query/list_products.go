package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/catalog/domain"
)

// ListProductsQuery represents the query to list catalog products
type ListProductsQuery struct {
	Category string // Optional: filter by category
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.CatalogRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.CatalogRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	products, err := h.repo.ListProducts(ctx, query.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
