package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"FoodExpress/internal/kv"
	"FoodExpress/internal/store"
)

var errDiskFull = errors.New("disk full")

// flakyKV fails writes while failWrites is set.
type flakyKV struct {
	kv.Store

	mu         sync.Mutex
	failWrites bool
	writes     int
}

func (f *flakyKV) Write(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errDiskFull
	}
	f.writes++
	return f.Store.Write(ctx, key, value)
}

func (f *flakyKV) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = v
}

func (f *flakyKV) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func openStore(t *testing.T, origin *store.Origin, name string) *store.Store {
	t.Helper()

	s, err := store.Open(context.Background(), origin, store.WithName(name))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func newStore(t *testing.T) (*store.Store, *store.Origin) {
	t.Helper()

	origin := store.NewOrigin(kv.NewMemStore())
	return openStore(t, origin, "test"), origin
}

func money(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func item(cartID, price string, qty int, toppingPrices ...string) store.CartItem {
	it := store.CartItem{
		Product: store.Product{
			ID:          "p-" + cartID,
			Name:        "Item " + cartID,
			Price:       money(price),
			IsAvailable: true,
		},
		CartID:   cartID,
		Quantity: qty,
	}
	for i, tp := range toppingPrices {
		it.SelectedToppings = append(it.SelectedToppings, store.Topping{
			ID:    cartID + "-t" + string(rune('0'+i)),
			Name:  "Topping",
			Price: money(tp),
		})
	}
	return it
}

func pendingOrder(id string, items ...store.CartItem) store.Order {
	return store.Order{
		ID:            id,
		Items:         items,
		TotalAmount:   store.ItemsTotal(items),
		Status:        store.StatusPending,
		CreatedAt:     time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
		CustomerName:  "Lan",
		ContactMethod: store.ContactPhone,
		ContactValue:  "0909123456",
		TableNumber:   "Online",
	}
}
