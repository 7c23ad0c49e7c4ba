package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/catalog/domain"
)

// GetProductQuery represents the query to get a product by id
type GetProductQuery struct {
	ProductID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.CatalogRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.CatalogRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}

	product, err := h.repo.FindProduct(ctx, query.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
