package kafka

import "time"

// CartEvent describes one cart mutation of a shopper session
type CartEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	SessionID  string    `json:"session_id"`
	Page       string    `json:"page,omitempty"`
	ProductKey string    `json:"product_key,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      int       `json:"price,omitempty"`
	Delta      int       `json:"delta,omitempty"`
	Quantity   int       `json:"quantity"`
	CartCount  int       `json:"cart_count"`
	CartTotal  int       `json:"cart_total"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeItemAdded       = "cart.item_added"
	EventTypeQuantityUpdated = "cart.quantity_updated"
	EventTypeItemRemoved     = "cart.item_removed"
	EventTypeCartCleared     = "cart.cleared"
)

// Kafka topics
const (
	TopicCartEvents = "storefront-cart-events"
)

// KnownEventType reports whether t is one of the cart event types
func KnownEventType(t string) bool {
	switch t {
	case EventTypeItemAdded, EventTypeQuantityUpdated, EventTypeItemRemoved, EventTypeCartCleared:
		return true
	}
	return false
}
