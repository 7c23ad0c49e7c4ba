// Package nav keeps the active category of a page in sync with clicks on the
// category bar and with scrolling.
package nav

import (
	"sync"
)

const (
	// DefaultHeaderHeight is used when the client cannot measure its header
	DefaultHeaderHeight = 60
	// SectionGap is the space kept between the header and a section title
	SectionGap = 20
)

// Geometry is what the client measured when a category was clicked
type Geometry struct {
	ElementTop   float64 `json:"element_top"`
	PageYOffset  float64 `json:"page_y_offset"`
	HeaderHeight float64 `json:"header_height,omitempty"`
}

// ScrollTarget tells the client where to scroll
type ScrollTarget struct {
	Section string  `json:"section"`
	Top     float64 `json:"top"`
	Scroll  bool    `json:"scroll"`
}

// Offset returns the document offset that puts the section just below the
// sticky header.
func Offset(g Geometry) float64 {
	header := g.HeaderHeight
	if header <= 0 {
		header = DefaultHeaderHeight
	}
	return g.ElementTop + g.PageYOffset - header - SectionGap
}

// Tracker holds the active category of one page
type Tracker struct {
	mu       sync.RWMutex
	active   string
	fallback string
	pinned   map[string]struct{}
}

// NewTracker creates a tracker starting at defaultActive. Sections listed in
// pinned become active without scrolling.
func NewTracker(defaultActive string, pinned ...string) *Tracker {
	t := &Tracker{
		active:   defaultActive,
		fallback: defaultActive,
		pinned:   make(map[string]struct{}, len(pinned)),
	}
	for _, key := range pinned {
		t.pinned[key] = struct{}{}
	}
	return t
}

// Activate marks key active after a click and computes where to scroll
func (t *Tracker) Activate(key string, g Geometry) ScrollTarget {
	t.mu.Lock()
	t.active = key
	t.mu.Unlock()

	if _, ok := t.pinned[key]; ok {
		return ScrollTarget{Section: key}
	}
	return ScrollTarget{Section: key, Top: Offset(g), Scroll: true}
}

// Observe marks key active because it scrolled into view
func (t *Tracker) Observe(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = key
}

// Active returns the active category
func (t *Tracker) Active() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Reset goes back to the page default
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = t.fallback
}
