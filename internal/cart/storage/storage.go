// Package storage provides the key/value "local storage" the cart is mirrored to.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a synchronous string key/value store
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Namespaced prefixes every key with prefix + ":" so several sessions can share
// one backend while each still sees the plain key (e.g. "cart").
type Namespaced struct {
	prefix string
	next   Storage
}

// WithNamespace scopes next to prefix
func WithNamespace(next Storage, prefix string) *Namespaced {
	return &Namespaced{prefix: prefix, next: next}
}

func (n *Namespaced) key(k string) string {
	return n.prefix + ":" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.next.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.next.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.next.Delete(ctx, n.key(key))
}
