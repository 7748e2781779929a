package checkout_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"FoodExpress/internal/checkout"
	"FoodExpress/internal/handoff"
	"FoodExpress/internal/kv"
	"FoodExpress/internal/store"
)

type fixture struct {
	kv    *kv.MemStore
	store *store.Store
	carts *checkout.CartStore
	svc   *checkout.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := kv.NewMemStore()
	s, err := store.Open(context.Background(), store.NewOrigin(mem), store.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	carts := checkout.NewCartStore(mem)
	return &fixture{
		kv:    mem,
		store: s,
		carts: carts,
		svc: &checkout.Service{
			Store:    s,
			Carts:    carts,
			Log:      zap.NewNop(),
			Location: time.UTC,
			Now:      func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) },
			NewID:    func() string { return "ord-7f3a" },
		},
	}
}

func (f *fixture) product(t *testing.T, id string) store.Product {
	t.Helper()
	p, ok := f.store.Product(id)
	require.True(t, ok)
	return p
}

func customer() checkout.Customer {
	return checkout.Customer{
		Name:          " Lan ",
		ContactMethod: store.ContactTelegram,
		ContactValue:  "@lan",
	}
}

func TestNewCartItem(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "p1")

	it, err := checkout.NewCartItem(p1, 2, []string{"t1", "t1"}, "  ít đá ")
	require.NoError(t, err)
	assert.NotEmpty(t, it.CartID)
	assert.Equal(t, 2, it.Quantity)
	require.Len(t, it.SelectedToppings, 1)
	assert.Equal(t, "t1", it.SelectedToppings[0].ID)
	assert.Equal(t, "ít đá", it.Note)

	other, err := checkout.NewCartItem(p1, 1, nil, "")
	require.NoError(t, err)
	assert.NotEqual(t, it.CartID, other.CartID)

	_, err = checkout.NewCartItem(p1, 0, nil, "")
	assert.ErrorIs(t, err, checkout.ErrInvalidQuantity)

	_, err = checkout.NewCartItem(p1, 1, []string{"t3"}, "")
	assert.ErrorIs(t, err, checkout.ErrUnknownTopping)

	p1.IsAvailable = false
	_, err = checkout.NewCartItem(p1, 1, nil, "")
	assert.ErrorIs(t, err, checkout.ErrUnavailable)
}

func TestCart(t *testing.T) {
	f := newFixture(t)

	a, err := checkout.NewCartItem(f.product(t, "p1"), 2, []string{"t1"}, "")
	require.NoError(t, err)
	b, err := checkout.NewCartItem(f.product(t, "p5"), 1, nil, "")
	require.NoError(t, err)

	c := checkout.NewCart()
	c.Add(a)
	c.Add(b)
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Total().Equal(decimal.RequireFromString("7.00")))

	assert.True(t, c.Remove(a.CartID))
	assert.False(t, c.Remove(a.CartID))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestCheckout_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	line, err := checkout.NewCartItem(f.product(t, "p1"), 2, []string{"t1"}, "")
	require.NoError(t, err)
	cart := checkout.NewCart()
	cart.Add(line)

	res, err := f.svc.Checkout(ctx, cart, customer())
	require.NoError(t, err)

	o := res.Order
	assert.Equal(t, "ord-7f3a", o.ID)
	assert.Equal(t, "7F3A", res.ShortID)
	assert.Equal(t, store.StatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("6.00")))
	assert.Equal(t, "Lan", o.CustomerName)
	assert.Equal(t, checkout.OnlineTable, o.TableNumber)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC).UnixMilli(), o.CreatedAt)

	latest, ok := f.store.LatestOrder()
	require.True(t, ok)
	assert.Equal(t, o.ID, latest.ID)
	assert.True(t, latest.TotalAmount.Equal(store.ItemsTotal(latest.Items)))

	assert.Equal(t, 0, cart.Len())
	assert.Empty(t, res.HandoffError)

	require.True(t, strings.HasPrefix(res.HandoffURL, "https://t.me/SupportFoodExpress?text="))
	u, err := url.Parse(res.HandoffURL)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.True(t, strings.HasPrefix(text, "🔥 ĐƠN HÀNG MỚI #7F3A\n"))
	assert.Contains(t, text, "📞 LH: Telegram - @lan")
	assert.Contains(t, text, "💰 TỔNG CỘNG: $6.00")
}

func TestCheckout_ValidationTouchesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	line, err := checkout.NewCartItem(f.product(t, "p2"), 1, nil, "")
	require.NoError(t, err)

	cases := []struct {
		name string
		cart *checkout.Cart
		cust checkout.Customer
		want error
	}{
		{"empty cart", checkout.NewCart(), customer(), checkout.ErrEmptyCart},
		{"nil cart", nil, customer(), checkout.ErrEmptyCart},
		{"blank name", cartWith(line), checkout.Customer{Name: "  ", ContactValue: "0909"}, checkout.ErrCustomerRequired},
		{"blank contact", cartWith(line), checkout.Customer{Name: "Lan", ContactValue: " "}, checkout.ErrContactRequired},
		{"bad method", cartWith(line), checkout.Customer{Name: "Lan", ContactMethod: "Pigeon", ContactValue: "x"}, checkout.ErrInvalidContactMethod},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Checkout(ctx, tc.cart, tc.cust)
			assert.ErrorIs(t, err, tc.want)
			if tc.cart != nil && len(tc.cart.Items) > 0 {
				assert.Equal(t, 1, tc.cart.Len(), "cart kept on failure")
			}
		})
	}
	assert.Empty(t, f.store.Orders())
}

func cartWith(items ...store.CartItem) *checkout.Cart {
	c := checkout.NewCart()
	for _, it := range items {
		c.Add(it)
	}
	return c
}

func TestCheckout_HandoffFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cfg := f.store.Config()
	cfg.TelegramUsername = ""
	require.NoError(t, f.store.UpdateConfig(ctx, cfg))

	line, err := checkout.NewCartItem(f.product(t, "p3"), 1, nil, "")
	require.NoError(t, err)

	res, err := f.svc.Checkout(ctx, cartWith(line), customer())
	require.NoError(t, err)
	assert.Empty(t, res.HandoffURL)
	assert.Equal(t, handoff.ErrNoChannel.Error(), res.HandoffError)

	_, ok := f.store.Order(res.Order.ID)
	assert.True(t, ok)
}

func TestCheckout_DefaultsContactMethod(t *testing.T) {
	f := newFixture(t)
	line, err := checkout.NewCartItem(f.product(t, "p4"), 1, nil, "")
	require.NoError(t, err)

	res, err := f.svc.Checkout(context.Background(), cartWith(line), checkout.Customer{Name: "An", ContactValue: "0909"})
	require.NoError(t, err)
	assert.Equal(t, store.ContactPhone, res.Order.ContactMethod)
}

func TestCheckoutCart_ClearsPersistedCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cart, err := f.carts.Create(ctx)
	require.NoError(t, err)

	line, err := checkout.NewCartItem(f.product(t, "p1"), 2, []string{"t1"}, "")
	require.NoError(t, err)
	_, err = f.carts.Update(ctx, cart.ID, func(c *checkout.Cart) error {
		c.Add(line)
		return nil
	})
	require.NoError(t, err)

	res, err := f.svc.CheckoutCart(ctx, cart.ID, customer())
	require.NoError(t, err)
	assert.True(t, res.Order.TotalAmount.Equal(decimal.RequireFromString("6")))

	saved, err := f.carts.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Len())

	_, err = f.svc.CheckoutCart(ctx, cart.ID, customer())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	_, err = f.svc.CheckoutCart(ctx, "nope", customer())
	assert.ErrorIs(t, err, checkout.ErrCartNotFound)
}

func TestCartStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	productsBefore, _, err := f.kv.Read(ctx, kv.KeyProducts)
	require.NoError(t, err)

	cart, err := f.carts.Create(ctx)
	require.NoError(t, err)

	line, err := checkout.NewCartItem(f.product(t, "p6"), 1, []string{"t5", "t6"}, "")
	require.NoError(t, err)

	updated, err := f.carts.Update(ctx, cart.ID, func(c *checkout.Cart) error {
		c.Add(line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Len())

	boom := errors.New("boom")
	_, err = f.carts.Update(ctx, cart.ID, func(c *checkout.Cart) error {
		c.Clear()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := f.carts.Get(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len(), "failed update is not saved")
	assert.True(t, got.Total().Equal(decimal.RequireFromString("3.50")))

	_, ok, err := f.kv.Read(ctx, kv.CartKey(cart.ID))
	require.NoError(t, err)
	assert.True(t, ok)

	productsAfter, _, err := f.kv.Read(ctx, kv.KeyProducts)
	require.NoError(t, err)
	assert.Equal(t, productsBefore, productsAfter)

	_, err = f.carts.Get(ctx, "missing")
	assert.ErrorIs(t, err, checkout.ErrCartNotFound)
}

func TestCartLineIsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p2 := f.product(t, "p2")
	line, err := checkout.NewCartItem(p2, 1, []string{"t3"}, "")
	require.NoError(t, err)

	p2.Price = decimal.RequireFromString("99")
	p2.Toppings[0].Price = decimal.RequireFromString("99")
	require.NoError(t, f.store.UpdateProduct(ctx, p2))

	assert.True(t, line.Price.Equal(decimal.RequireFromString("4.00")))
	assert.True(t, line.Product.Toppings[0].Price.Equal(decimal.RequireFromString("0.50")))
	assert.True(t, line.LineTotal().Equal(decimal.RequireFromString("4.50")))
}

var errCartWrite = errors.New("cart write refused")

// cartWriteFailer refuses cart writes while fail is set; collection writes
// go through.
type cartWriteFailer struct {
	*kv.MemStore
	fail bool
}

func (c *cartWriteFailer) Write(ctx context.Context, key string, value []byte) error {
	if c.fail && strings.HasPrefix(key, kv.CartKey("")) {
		return errCartWrite
	}
	return c.MemStore.Write(ctx, key, value)
}

func TestCheckoutCart_UnsavedClearDoesNotDuplicateOrder(t *testing.T) {
	ctx := context.Background()
	backend := &cartWriteFailer{MemStore: kv.NewMemStore()}

	s, err := store.Open(ctx, store.NewOrigin(backend), store.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(s.Close)

	carts := checkout.NewCartStore(backend)
	svc := &checkout.Service{Store: s, Carts: carts, Log: zap.NewNop(), Location: time.UTC}

	cart, err := carts.Create(ctx)
	require.NoError(t, err)
	p1, ok := s.Product("p1")
	require.True(t, ok)
	line, err := checkout.NewCartItem(p1, 1, nil, "")
	require.NoError(t, err)
	_, err = carts.Update(ctx, cart.ID, func(c *checkout.Cart) error {
		c.Add(line)
		return nil
	})
	require.NoError(t, err)

	backend.fail = true
	res, err := svc.CheckoutCart(ctx, cart.ID, customer())
	require.NoError(t, err, "the order is placed even though the cart could not be cleared")
	assert.Equal(t, errCartWrite.Error(), res.CartError)
	require.Len(t, s.Orders(), 1)

	raw, _, err := backend.Read(ctx, kv.CartKey(cart.ID))
	require.NoError(t, err)
	assert.Contains(t, string(raw), line.CartID, "stored cart is still stale")

	_, err = svc.CheckoutCart(ctx, cart.ID, customer())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Len(t, s.Orders(), 1, "retry must not place the order again")

	got, err := carts.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	backend.fail = false
	got, err = carts.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	raw, _, err = backend.Read(ctx, kv.CartKey(cart.ID))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), line.CartID, "stale lines are cleared once a save succeeds")
}
