package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"FoodExpress/internal/store"
)

var (
	ErrUnavailable     = errors.New("product is not available")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnknownTopping  = errors.New("unknown topping")
)

// NewCartItem snapshots p into a cart line. Later catalog edits do not
// touch the line or any order placed from it.
func NewCartItem(p store.Product, qty int, toppingIDs []string, note string) (store.CartItem, error) {
	if !p.IsAvailable {
		return store.CartItem{}, fmt.Errorf("%w: %s", ErrUnavailable, p.ID)
	}
	if qty < 1 {
		return store.CartItem{}, ErrInvalidQuantity
	}

	selected := make([]store.Topping, 0, len(toppingIDs))
	seen := make(map[string]struct{}, len(toppingIDs))
	for _, id := range toppingIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		t, ok := p.Topping(id)
		if !ok {
			return store.CartItem{}, fmt.Errorf("%w: %s on %s", ErrUnknownTopping, id, p.ID)
		}
		selected = append(selected, t)
	}

	p.Toppings = append([]store.Topping(nil), p.Toppings...)
	return store.CartItem{
		Product:          p,
		CartID:           uuid.NewString(),
		Quantity:         qty,
		SelectedToppings: selected,
		Note:             strings.TrimSpace(note),
	}, nil
}

// Cart is one customer's pending selection. It is not safe for concurrent
// use; CartStore serializes access per store.
type Cart struct {
	ID        string           `json:"id"`
	Items     []store.CartItem `json:"items"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func NewCart() *Cart {
	return &Cart{ID: uuid.NewString(), Items: []store.CartItem{}, UpdatedAt: time.Now().UTC()}
}

func (c *Cart) Add(it store.CartItem) {
	c.Items = append(c.Items, it)
	c.touch()
}

// Remove drops the line with the given cart id and reports whether it was
// present.
func (c *Cart) Remove(lineID string) bool {
	for i, it := range c.Items {
		if it.CartID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = []store.CartItem{}
	c.touch()
}

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Total() decimal.Decimal { return Total(c.Items) }

func (c *Cart) touch() { c.UpdatedAt = time.Now().UTC() }

// Total is the amount an order built from items must carry.
func Total(items []store.CartItem) decimal.Decimal {
	return store.ItemsTotal(items)
}
