// Package storefront composes the catalog, cart, search and navigation state
// of a shopper session for each page of the shop.
package storefront

import (
	"errors"
	"fmt"
	"time"

	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/search"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Page keys
const (
	PageHome       = "home"
	PageAssemblies = "assemblies"
	PageLabels     = "labels"
)

// StoreSection is the home page hero section. It is part of the category bar
// but holds no products and never scrolls.
const StoreSection = "store"

// Page describes one page of the shop
type Page struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	// Categories is the category bar, in display order.
	Categories    []catalog.Category `json:"categories"`
	DefaultActive string             `json:"default_active,omitempty"`
	SearchDelay   time.Duration      `json:"-"`
	// Flat pages list a single category without headings.
	Flat bool `json:"flat"`
	// Pinned sections become active without scrolling.
	Pinned []string `json:"-"`
}

// CatalogKeys returns the categories of the page that hold products
func (p Page) CatalogKeys() []string {
	keys := make([]string, 0, len(p.Categories))
	for _, cat := range p.Categories {
		if cat.Link == StoreSection {
			continue
		}
		keys = append(keys, cat.Link)
	}
	return keys
}

// Scope restricts c to the categories shown on the page
func (p Page) Scope(c *catalog.Catalog) *catalog.Catalog {
	return c.Subset(p.CatalogKeys()...)
}

// Pages is the set of pages served by the shop
type Pages struct {
	order []string
	byKey map[string]Page
}

// NewPages creates the page set; slowDelay applies to flat pages
func NewPages(c *catalog.Catalog, delay, slowDelay time.Duration) *Pages {
	if delay <= 0 {
		delay = search.DefaultDelay
	}
	if slowDelay <= 0 {
		slowDelay = search.SlowDelay
	}

	home := Page{
		Key:           PageHome,
		Title:         "المتجر",
		Categories:    append([]catalog.Category{{Name: "المتجر", Link: StoreSection}}, c.Categories()...),
		DefaultActive: StoreSection,
		SearchDelay:   delay,
		Pinned:        []string{StoreSection},
	}

	labels := Page{
		Key:         PageLabels,
		Title:       "ورق وملصقات",
		Categories:  relabel(c.Categories(), map[string]string{catalog.CategoryEquipment: "معدات"}),
		SearchDelay: delay,
	}
	if len(labels.Categories) > 0 {
		labels.DefaultActive = labels.Categories[0].Link
	}

	assemblies := Page{
		Key:         PageAssemblies,
		Title:       "تجميعات",
		SearchDelay: slowDelay,
		Flat:        true,
	}
	if cat, err := c.Category(catalog.CategoryAssemblies); err == nil {
		assemblies.Categories = []catalog.Category{cat}
		assemblies.Title = cat.Name
	}

	return &Pages{
		order: []string{PageHome, PageAssemblies, PageLabels},
		byKey: map[string]Page{
			PageHome:       home,
			PageAssemblies: assemblies,
			PageLabels:     labels,
		},
	}
}

// List returns the pages in navigation order
func (p *Pages) List() []Page {
	out := make([]Page, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.byKey[key])
	}
	return out
}

// Get looks up a page by key
func (p *Pages) Get(key string) (Page, error) {
	page, ok := p.byKey[key]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, key)
	}
	return page, nil
}

func relabel(categories []catalog.Category, names map[string]string) []catalog.Category {
	for i, cat := range categories {
		if name, ok := names[cat.Link]; ok {
			categories[i].Name = name
		}
	}
	return categories
}
