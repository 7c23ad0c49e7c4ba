// Package activity projects the cart event stream into shop-wide metrics and a
// running tally of the most added products.
package activity

import (
	"context"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

// seenWindow bounds the event ids remembered for de-duplication
const seenWindow = 4096

// HandlerRegistry is where the projector subscribes to event types
type HandlerRegistry interface {
	RegisterHandler(eventType string, handler kafka.EventHandler)
}

// ProductCount is a product and how many units were added to carts
type ProductCount struct {
	ProductKey string `json:"product_key"`
	Name       string `json:"name"`
	Added      int    `json:"added"`
}

// Projector consumes cart events. Events are delivered at least once, so
// duplicates within the last seenWindow ids are skipped.
type Projector struct {
	events     *prometheus.CounterVec
	unitsAdded *prometheus.CounterVec
	cartValue  prometheus.Histogram
	duplicates prometheus.Counter

	mu    sync.Mutex
	seen  map[string]struct{}
	ring  []string
	next  int
	tally map[string]*ProductCount
}

// NewProjector creates a projector and registers its collectors with reg when it is not nil
func NewProjector(reg prometheus.Registerer) *Projector {
	p := &Projector{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_activity_events_total",
				Help: "Cart events consumed, by type and page",
			},
			[]string{"event_type", "page"},
		),
		unitsAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_activity_units_added_total",
				Help: "Units added to carts, by product",
			},
			[]string{"product"},
		),
		cartValue: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_activity_cart_value",
				Help:    "Cart total after each mutation",
				Buckets: prometheus.ExponentialBuckets(1000, 2, 10),
			},
		),
		duplicates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_activity_duplicate_events_total",
				Help: "Redelivered events that were skipped",
			},
		),
		seen:  make(map[string]struct{}, seenWindow),
		ring:  make([]string, seenWindow),
		tally: make(map[string]*ProductCount),
	}

	if reg != nil {
		reg.MustRegister(p.events, p.unitsAdded, p.cartValue, p.duplicates)
	}
	return p
}

// Register subscribes the projector to every cart event type
func (p *Projector) Register(r HandlerRegistry) {
	for _, t := range []string{
		kafka.EventTypeItemAdded,
		kafka.EventTypeQuantityUpdated,
		kafka.EventTypeItemRemoved,
		kafka.EventTypeCartCleared,
	} {
		r.RegisterHandler(t, p.Handle)
	}
}

// Handle applies one event
func (p *Projector) Handle(ctx context.Context, event kafka.CartEvent) error {
	if !p.firstDelivery(event.EventID) {
		p.duplicates.Inc()
		logger.Debug(ctx).Str("event_id", event.EventID).Msg("Duplicate cart event skipped")
		return nil
	}

	page := event.Page
	if page == "" {
		page = "unknown"
	}
	p.events.WithLabelValues(event.EventType, page).Inc()
	p.cartValue.Observe(float64(event.CartTotal))

	added := 0
	switch event.EventType {
	case kafka.EventTypeItemAdded:
		added = 1
	case kafka.EventTypeQuantityUpdated:
		if event.Delta > 0 {
			added = event.Delta
		}
	}
	if added > 0 && event.ProductKey != "" {
		p.unitsAdded.WithLabelValues(event.ProductKey).Add(float64(added))
		p.count(event, added)
	}
	return nil
}

// Top returns the n products with the most units added, most first
func (p *Projector) Top(n int) []ProductCount {
	p.mu.Lock()
	out := make([]ProductCount, 0, len(p.tally))
	for _, pc := range p.tally {
		out = append(out, *pc)
	}
	p.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Added != out[j].Added {
			return out[i].Added > out[j].Added
		}
		return out[i].ProductKey < out[j].ProductKey
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (p *Projector) count(event kafka.CartEvent, added int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pc, ok := p.tally[event.ProductKey]
	if !ok {
		pc = &ProductCount{ProductKey: event.ProductKey, Name: event.Name}
		p.tally[event.ProductKey] = pc
	}
	pc.Added += added
}

// firstDelivery records id and reports whether it was new. Events without an
// id are always applied.
func (p *Projector) firstDelivery(id string) bool {
	if id == "" {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[id]; dup {
		return false
	}
	if old := p.ring[p.next]; old != "" {
		delete(p.seen, old)
	}
	p.ring[p.next] = id
	p.next = (p.next + 1) % len(p.ring)
	p.seen[id] = struct{}{}
	return true
}
