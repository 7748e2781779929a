// Package kv is the persistence adapter behind the domain store: a
// synchronous, origin-scoped key-value store with no transactions or
// versioning. Values are opaque JSON documents.
package kv

import (
	"context"
	"errors"
	"time"
)

// Keys of the shared collections.
const (
	KeyProducts   = "app_products"
	KeyOrders     = "app_orders"
	KeyCategories = "app_categories"
	KeyConfig     = "app_config"

	cartKeyPrefix = "customer_cart:"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var (
	ErrEmptyKey      = errors.New("kv: empty key")
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
)

// Store reads and writes whole documents by key. Read reports found=false
// for a key that was never written.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

// CartKey is the key of a customer's own cart document.
func CartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
