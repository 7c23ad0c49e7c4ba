package domain

import (
	"context"
	"fmt"
)

// Catalog is an immutable, ordered view of categories and their products
type Catalog struct {
	categories []Category
	products   map[string][]Product
	byID       map[string]Product
}

// NewCatalog builds a catalog. Products without an ID get "<category>-<n>"
// where n is their 1-based position inside the category.
func NewCatalog(categories []Category, products map[string][]Product) *Catalog {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		products:   make(map[string][]Product, len(categories)),
		byID:       make(map[string]Product),
	}

	for i, cat := range categories {
		cat.Position = i
		c.categories = append(c.categories, cat)

		src := products[cat.Link]
		list := make([]Product, 0, len(src))
		for j, p := range src {
			p.Category = cat.Link
			p.Position = j
			if p.ID == "" {
				p.ID = fmt.Sprintf("%s-%d", cat.Link, j+1)
			}
			list = append(list, p)
			c.byID[p.ID] = p
		}
		c.products[cat.Link] = list
	}

	return c
}

// Categories returns the categories in display order
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Keys returns category links in display order
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.categories))
	for i, cat := range c.categories {
		keys[i] = cat.Link
	}
	return keys
}

// HasCategory reports whether link names a catalog category
func (c *Catalog) HasCategory(link string) bool {
	_, ok := c.products[link]
	return ok
}

// Category looks up a category by link
func (c *Catalog) Category(link string) (Category, error) {
	for _, cat := range c.categories {
		if cat.Link == link {
			return cat, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, link)
}

// Products returns the products of a category. The slice is shared and must
// not be modified.
func (c *Catalog) Products(link string) []Product {
	return c.products[link]
}

// All returns every product in category then position order
func (c *Catalog) All() []Product {
	out := make([]Product, 0, len(c.byID))
	for _, cat := range c.categories {
		out = append(out, c.products[cat.Link]...)
	}
	return out
}

// Product looks up a product by its stable id
func (c *Catalog) Product(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

// Subset returns a catalog restricted to the given categories, in the given
// order. Unknown links are skipped; product ids are kept.
func (c *Catalog) Subset(links ...string) *Catalog {
	categories := make([]Category, 0, len(links))
	products := make(map[string][]Product, len(links))
	for _, link := range links {
		cat, err := c.Category(link)
		if err != nil {
			continue
		}
		categories = append(categories, cat)
		products[link] = c.products[link]
	}
	return NewCatalog(categories, products)
}

// Load reads the whole catalog from repo
func Load(ctx context.Context, repo CatalogRepository) (*Catalog, error) {
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	products := make(map[string][]Product, len(categories))
	for _, cat := range categories {
		list, err := repo.ListProducts(ctx, cat.Link)
		if err != nil {
			return nil, fmt.Errorf("failed to list products of %s: %w", cat.Link, err)
		}
		products[cat.Link] = list
	}

	return NewCatalog(categories, products), nil
}
