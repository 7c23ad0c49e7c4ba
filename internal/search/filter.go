// Package search filters the catalog by a case-insensitive substring of the
// product name, optionally scoped to one category.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	catalog "github.com/tair/storefront/internal/catalog/domain"
)

// Results is the outcome of one filter pass
type Results struct {
	Query string `json:"query"`
	// Selected is the category the pass was scoped to, empty for all.
	Selected string `json:"selected,omitempty"`
	// Shown is false for an empty query: no results section is displayed.
	Shown      bool                         `json:"shown"`
	Order      []string                     `json:"order"`
	Categories map[string][]catalog.Product `json:"categories"`
}

// For returns the matches of one category
func (r Results) For(category string) []catalog.Product {
	return r.Categories[category]
}

// Flat returns all matches in category order
func (r Results) Flat() []catalog.Product {
	out := []catalog.Product{}
	for _, key := range r.Order {
		out = append(out, r.Categories[key]...)
	}
	return out
}

// Count returns the total number of matches
func (r Results) Count() int {
	n := 0
	for _, list := range r.Categories {
		n += len(list)
	}
	return n
}

// Empty reports a displayed search with no match at all
func (r Results) Empty() bool {
	return r.Shown && r.Count() == 0
}

// fold lower-cases s independent of locale. A Caser is stateful, so each call
// builds its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Matches reports whether name contains query, ignoring case
func Matches(name, query string) bool {
	return strings.Contains(fold(name), fold(query))
}

// Filter scans c for products whose name contains query. With selected set,
// only that category is scanned and every other category maps to an empty list.
func Filter(c *catalog.Catalog, query, selected string) Results {
	res := Results{
		Query:      query,
		Selected:   selected,
		Order:      c.Keys(),
		Categories: make(map[string][]catalog.Product, len(c.Keys())),
	}
	if query == "" {
		return res
	}
	res.Shown = true

	q := fold(query)
	for _, key := range res.Order {
		matches := []catalog.Product{}
		if selected == "" || selected == key {
			for _, p := range c.Products(key) {
				if strings.Contains(fold(p.Name), q) {
					matches = append(matches, p)
				}
			}
		}
		res.Categories[key] = matches
	}
	return res
}
