// Package notify holds the transient, self-clearing notification shown after
// cart changes.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
)

// Notification is a message shown to the shopper
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier holds at most one current notification. Each Show schedules a clear
// after the TTL; the clear only removes the notification that scheduled it, so a
// newer notification always gets its full TTL.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
	now     func() time.Time
}

// New creates a notifier; ttl <= 0 means DefaultTTL
func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// Show replaces the current notification and schedules its dismissal
func (n *Notifier) Show(kind Kind, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	note := Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.current = &note

	if n.timer != nil {
		n.timer.Stop()
	}
	id := note.ID
	n.timer = time.AfterFunc(n.ttl, func() { n.clear(id) })

	return note
}

func (n *Notifier) clear(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}

// Current returns the visible notification, if any
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss clears the current notification immediately
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// Close stops the pending timer
func (n *Notifier) Close() {
	n.Dismiss()
}
