package repository

import (
	"context"

	"github.com/tair/storefront/internal/catalog/domain"
)

// StaticCatalogRepository serves the compiled-in catalog
type StaticCatalogRepository struct {
	catalog *domain.Catalog
}

// NewStaticCatalogRepository creates a repository over c; nil means the default shop catalog
func NewStaticCatalogRepository(c *domain.Catalog) *StaticCatalogRepository {
	if c == nil {
		c = domain.Default()
	}
	return &StaticCatalogRepository{catalog: c}
}

func (r *StaticCatalogRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	return r.catalog.Categories(), nil
}

func (r *StaticCatalogRepository) ListProducts(_ context.Context, category string) ([]domain.Product, error) {
	if category == "" {
		return r.catalog.All(), nil
	}
	if !r.catalog.HasCategory(category) {
		return nil, domain.ErrCategoryNotFound
	}
	src := r.catalog.Products(category)
	out := make([]domain.Product, len(src))
	copy(out, src)
	return out, nil
}

func (r *StaticCatalogRepository) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	p, err := r.catalog.Product(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
