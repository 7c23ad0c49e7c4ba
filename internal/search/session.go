package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	cartdomain "github.com/tair/storefront/internal/cart/domain"
	catalog "github.com/tair/storefront/internal/catalog/domain"
)

// Default debounce delays
const (
	DefaultDelay = 300 * time.Millisecond
	SlowDelay    = 500 * time.Millisecond
)

// CartAdder is the part of the cart a selected result is added to
type CartAdder interface {
	Add(ctx context.Context, p catalog.Product) cartdomain.Line
}

// State is a snapshot of a search box
type State struct {
	Query     string  `json:"query"`
	Selected  string  `json:"selected_category,omitempty"`
	Searching bool    `json:"searching"`
	Results   Results `json:"results"`
	// Empty is true when a finished search matched nothing.
	Empty bool `json:"empty"`
}

// Session is the search box of one shopper: keystrokes are debounced and only
// the last one triggers a filter pass.
type Session struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	debouncer *Debouncer
	onPass    func(Results)

	query     string
	selected  string
	searching bool
	results   Results
}

// NewSession creates a search session; onPass, when set, is called after every filter pass
func NewSession(c *catalog.Catalog, delay time.Duration, onPass func(Results)) *Session {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Session{
		catalog:   c,
		debouncer: NewDebouncer(delay),
		onPass:    onPass,
		results:   Filter(c, "", ""),
	}
}

// Type records a keystroke: the query is updated immediately, the filter pass
// runs after the debounce delay unless another keystroke supersedes it.
func (s *Session) Type(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.searching = true
	// scheduled under mu: the last stored query always owns the last pass
	s.debouncer.Trigger(s.run)
}

// SelectCategory scopes the search to one category ("" for all) and re-filters
// the current query at once.
func (s *Session) SelectCategory(key string) error {
	if key != "" && !s.catalog.HasCategory(key) {
		return fmt.Errorf("%w: %s", catalog.ErrCategoryNotFound, key)
	}

	s.mu.Lock()
	s.selected = key
	s.debouncer.Cancel()
	res := s.filter()
	s.mu.Unlock()

	s.passDone(res)
	return nil
}

// Select adds the product to the cart and clears the query
func (s *Session) Select(ctx context.Context, productID string, cart CartAdder) (catalog.Product, error) {
	p, err := s.catalog.Product(productID)
	if err != nil {
		return catalog.Product{}, err
	}
	cart.Add(ctx, p)
	s.Clear()
	return p, nil
}

// Clear empties the query and results, dropping any pending pass
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debouncer.Cancel()
	s.query = ""
	s.searching = false
	s.results = Filter(s.catalog, "", s.selected)
}

// Blur is called when the search box loses focus; it clears the query
func (s *Session) Blur() {
	s.Clear()
}

// State returns a snapshot of the search box
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Query:     s.query,
		Selected:  s.selected,
		Searching: s.searching,
		Results:   s.results,
		Empty:     !s.searching && s.results.Empty(),
	}
}

// Close drops any pending pass
func (s *Session) Close() {
	s.debouncer.Cancel()
}

// run is a debounced pass. It filters whatever query is current, so a pass
// that fires late never leaves the box searching for a newer keystroke.
func (s *Session) run() {
	s.mu.Lock()
	if !s.searching {
		// cleared, or already filtered by SelectCategory
		s.mu.Unlock()
		return
	}
	res := s.filter()
	s.mu.Unlock()

	s.passDone(res)
}

// filter runs a pass over the current query; callers hold mu
func (s *Session) filter() Results {
	s.results = Filter(s.catalog, s.query, s.selected)
	s.searching = false
	return s.results
}

func (s *Session) passDone(res Results) {
	if s.onPass != nil {
		s.onPass(res)
	}
}
