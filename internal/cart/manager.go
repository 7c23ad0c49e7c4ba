// Package cart implements the shopper's cart: line bookkeeping in domain,
// mirrored to a key/value storage after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tair/storefront/internal/cart/domain"
	"github.com/tair/storefront/internal/cart/storage"
	catalog "github.com/tair/storefront/internal/catalog/domain"
	"github.com/tair/storefront/internal/notify"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

// StorageKey is the key the cart is stored under inside a session's storage
const StorageKey = "cart"

// EventPublisher receives one event per cart mutation
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.CartEvent) error
}

// Manager owns the cart of one session. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	sessionID string
	page      string
	store     storage.Storage
	notifier  *notify.Notifier
	events    EventPublisher
	metrics   *Metrics
	cart      domain.Cart
}

// Option configures a Manager
type Option func(*Manager)

// WithNotifier sets the notifier used for add/remove messages
func WithNotifier(n *notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithEvents publishes cart events to p
func WithEvents(p EventPublisher) Option {
	return func(m *Manager) { m.events = p }
}

// WithMetrics records operations in metrics
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithPage tags events with the page the session was opened on
func WithPage(page string) Option {
	return func(m *Manager) { m.page = page }
}

// Load restores the session cart from store. Missing, unreadable or corrupt
// data yields an empty cart; the failure is logged and never returned.
func Load(ctx context.Context, sessionID string, store storage.Storage, opts ...Option) *Manager {
	m := &Manager{sessionID: sessionID, store: store}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = notify.New(notify.DefaultTTL)
	}

	raw, err := store.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return m
	case err != nil:
		m.metrics.loadFailed("storage")
		logger.Warn(ctx).Err(err).Str("session_id", sessionID).Msg("Failed to load cart from storage, starting empty")
		return m
	}

	c, err := domain.Decode(raw)
	if err != nil {
		m.metrics.loadFailed("corrupt")
		logger.Warn(ctx).Err(err).Str("session_id", sessionID).Msg("Failed to parse stored cart, starting empty")
		return m
	}

	m.cart = c
	logger.Debug(ctx).
		Str("session_id", sessionID).
		Int("lines", c.Len()).
		Msg("Cart restored from storage")
	return m
}

// Add puts one unit of p in the cart and shows an "added" notification
func (m *Manager) Add(ctx context.Context, p catalog.Product) domain.Line {
	m.mu.Lock()
	line := m.cart.Add(p)
	m.persist(ctx)
	count, total := m.cart.TotalCount(), m.cart.TotalPrice()
	m.mu.Unlock()

	m.metrics.operation("add", "ok")
	m.metrics.observeQuantity(line.Quantity)
	m.notifier.Show(notify.KindAdded, fmt.Sprintf("تم إضافة \"%s\" إلى السلة", p.Name))
	m.publish(ctx, kafka.EventTypeItemAdded, line, 1, count, total)
	return line
}

// UpdateQuantity changes a line's quantity by delta; a line reaching zero is
// removed. Unknown keys are ignored and reported with found == false.
func (m *Manager) UpdateQuantity(ctx context.Context, key string, delta int) (line domain.Line, found bool) {
	m.mu.Lock()
	line, found = m.cart.UpdateQuantity(key, delta)
	if !found {
		m.mu.Unlock()
		m.metrics.operation("update_quantity", "miss")
		return domain.Line{}, false
	}
	m.persist(ctx)
	count, total := m.cart.TotalCount(), m.cart.TotalPrice()
	m.mu.Unlock()

	m.metrics.operation("update_quantity", "ok")
	m.publish(ctx, kafka.EventTypeQuantityUpdated, line, delta, count, total)
	return line, true
}

// Remove drops the line with key and shows a "removed" notification. The
// notification is shown even when no line matched.
func (m *Manager) Remove(ctx context.Context, key string) (removed bool) {
	m.mu.Lock()
	line, removed := m.cart.Remove(key)
	if removed {
		m.persist(ctx)
	}
	count, total := m.cart.TotalCount(), m.cart.TotalPrice()
	m.mu.Unlock()

	name := key
	if removed {
		name = line.Name
	}
	m.notifier.Show(notify.KindRemoved, fmt.Sprintf("تم إزالة \"%s\" من السلة", name))

	if !removed {
		m.metrics.operation("remove", "miss")
		return false
	}
	m.metrics.operation("remove", "ok")
	line.Quantity = 0
	m.publish(ctx, kafka.EventTypeItemRemoved, line, 0, count, total)
	return true
}

// Clear empties the cart
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	m.cart.Clear()
	m.persist(ctx)
	count, total := m.cart.TotalCount(), m.cart.TotalPrice()
	m.mu.Unlock()

	m.metrics.operation("clear", "ok")
	m.publish(ctx, kafka.EventTypeCartCleared, domain.Line{}, 0, count, total)
}

// Cart returns a snapshot of the cart
func (m *Manager) Cart() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, _ := domain.NewCart(m.cart.Lines())
	return c
}

// TotalPrice returns the sum of price * quantity
func (m *Manager) TotalPrice() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.TotalPrice()
}

// TotalCount returns the number of units in the cart
func (m *Manager) TotalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.TotalCount()
}

// Notification returns the visible notification, if any
func (m *Manager) Notification() (notify.Notification, bool) {
	return m.notifier.Current()
}

// Close stops the notification timer
func (m *Manager) Close() {
	m.notifier.Close()
}

// persist writes the whole cart; callers hold m.mu. A failed write keeps the
// in-memory cart and is only logged.
func (m *Manager) persist(ctx context.Context) {
	raw, err := domain.Encode(m.cart)
	if err == nil {
		err = m.store.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		m.metrics.persistFailed()
		logger.Error(ctx).Err(err).Str("session_id", m.sessionID).Msg("Failed to persist cart")
	}
}

func (m *Manager) publish(ctx context.Context, eventType string, line domain.Line, delta, count, total int) {
	if m.events == nil {
		return
	}

	event := kafka.CartEvent{
		EventType:  eventType,
		SessionID:  m.sessionID,
		Page:       m.page,
		ProductKey: line.Key(),
		Name:       line.Name,
		Price:      line.Price,
		Delta:      delta,
		Quantity:   line.Quantity,
		CartCount:  count,
		CartTotal:  total,
	}
	if err := m.events.Publish(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", eventType).Msg("Failed to publish cart event")
	}
}
