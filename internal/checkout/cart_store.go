package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"FoodExpress/internal/kv"
	"FoodExpress/internal/store"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStore keeps carts in the persistence adapter under their own keys,
// apart from the shared collections.
//
// Lines already placed as an order but still persisted (the emptied cart
// could not be saved) are remembered per cart and hidden from every read
// until a save succeeds.
type CartStore struct {
	kv kv.Store
	mu sync.Mutex

	placed map[string]map[string]struct{} // cart id -> placed line ids
}

func NewCartStore(s kv.Store) *CartStore {
	return &CartStore{kv: s, placed: make(map[string]map[string]struct{})}
}

func (s *CartStore) Create(ctx context.Context) (*Cart, error) {
	c := NewCart()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartStore) Get(ctx context.Context, id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx, id)
}

// Update loads the cart, applies fn and saves the result. Nothing is saved
// when fn fails.
func (s *CartStore) Update(ctx context.Context, id string, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartStore) get(ctx context.Context, id string) (*Cart, error) {
	raw, ok, err := s.kv.Read(ctx, kv.CartKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, id)
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	s.dropPlaced(ctx, &c)
	return &c, nil
}

// markPlaced remembers lines that became an order while the persisted cart
// still holds them.
func (s *CartStore) markPlaced(cartID string, lines []store.CartItem) {
	if s.placed == nil {
		s.placed = make(map[string]map[string]struct{})
	}
	set := s.placed[cartID]
	if set == nil {
		set = make(map[string]struct{}, len(lines))
		s.placed[cartID] = set
	}
	for _, it := range lines {
		set[it.CartID] = struct{}{}
	}
}

// dropPlaced removes remembered lines from c and retries the save. The
// marker is forgotten once the stored cart no longer holds them.
func (s *CartStore) dropPlaced(ctx context.Context, c *Cart) {
	set, ok := s.placed[c.ID]
	if !ok {
		return
	}

	kept := make([]store.CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if _, gone := set[it.CartID]; !gone {
			kept = append(kept, it)
		}
	}
	dropped := len(kept) != len(c.Items)
	c.Items = kept

	if !dropped || s.save(ctx, c) == nil {
		delete(s.placed, c.ID)
	}
}

func (s *CartStore) save(ctx context.Context, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	return s.kv.Write(ctx, kv.CartKey(c.ID), raw)
}
