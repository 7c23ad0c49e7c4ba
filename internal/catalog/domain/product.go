package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Product represents one catalog entry. Prices are whole currency units (DZD).
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;size:64"`
	Category    string `json:"category" gorm:"not null;index;size:64"`
	Position    int    `json:"-" gorm:"not null"`
	Name        string `json:"name" gorm:"not null"`
	Price       int    `json:"price" gorm:"not null"`
	Img         string `json:"img"`
	Description string `json:"description,omitempty"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Category is a navigable catalog section
type Category struct {
	Link     string `json:"link" gorm:"primaryKey;size:64"`
	Name     string `json:"name" gorm:"not null"`
	Position int    `json:"-" gorm:"not null"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// CatalogRepository defines the contract for catalog data access
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	// ListProducts returns products of category in display order; an empty
	// category returns every product.
	ListProducts(ctx context.Context, category string) ([]Product, error)
	FindProduct(ctx context.Context, id string) (*Product, error)
}
