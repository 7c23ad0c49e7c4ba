package query

import (
	"context"
	"fmt"

	"github.com/tair/storefront/internal/catalog/domain"
)

// ListCategoriesHandler handles list categories query
type ListCategoriesHandler struct {
	repo domain.CatalogRepository
}

// NewListCategoriesHandler creates a new list categories handler
func NewListCategoriesHandler(repo domain.CatalogRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle executes the list categories query
func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]domain.Category, error) {
	categories, err := h.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
