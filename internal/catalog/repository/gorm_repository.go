package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/storefront/internal/catalog/domain"
)

// GormCatalogRepository stores the catalog in PostgreSQL
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Category{}, &domain.Product{})
}

// Seed upserts every category and product of c, keyed by link and id
func (r *GormCatalogRepository) Seed(ctx context.Context, c *domain.Catalog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := c.Categories()
		if len(categories) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&categories).Error; err != nil {
				return fmt.Errorf("failed to seed categories: %w", err)
			}
		}

		products := c.All()
		if len(products) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&products).Error; err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
		}
		return nil
	})
}

func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).Order("position").Find(&categories).Error
	return categories, err
}

func (r *GormCatalogRepository) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	q := r.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("category").Order("position").Find(&products).Error; err != nil {
		return nil, err
	}

	if category != "" && len(products) == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("link = ?", category).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, domain.ErrCategoryNotFound
		}
	}
	return products, nil
}

func (r *GormCatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
