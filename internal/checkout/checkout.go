// Package checkout turns a customer's cart into a PENDING order and builds
// the hand-off link the customer uses to notify the shop.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FoodExpress/internal/handoff"
	"FoodExpress/internal/store"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerRequired     = errors.New("customer name is required")
	ErrContactRequired      = errors.New("contact value is required")
	ErrInvalidContactMethod = errors.New("unknown contact method")
)

// OnlineTable marks orders placed through the online menu.
const OnlineTable = "Online"

type Customer struct {
	Name            string              `json:"customerName"`
	ContactMethod   store.ContactMethod `json:"contactMethod"`
	ContactValue    string              `json:"contactValue"`
	DeliveryAddress string              `json:"deliveryAddress"`
}

// Validate trims c in place. An empty contact method defaults to phone.
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.ContactValue = strings.TrimSpace(c.ContactValue)
	c.DeliveryAddress = strings.TrimSpace(c.DeliveryAddress)
	if c.ContactMethod == "" {
		c.ContactMethod = store.ContactPhone
	}

	switch {
	case c.Name == "":
		return ErrCustomerRequired
	case c.ContactValue == "":
		return ErrContactRequired
	case !c.ContactMethod.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidContactMethod, c.ContactMethod)
	}
	return nil
}

type Result struct {
	Order        store.Order `json:"order"`
	ShortID      string      `json:"shortId"`
	HandoffURL   string      `json:"handoff_url,omitempty"`
	HandoffError string      `json:"handoff_error,omitempty"`
	CartError    string      `json:"cart_error,omitempty"`
}

type Service struct {
	Store    *store.Store
	Carts    *CartStore
	Log      *zap.Logger
	Location *time.Location

	Now   func() time.Time
	NewID func() string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// Checkout places cart as a new order and clears it. Validation happens
// before the store is touched. A failed hand-off is reported in the result;
// the order stays placed.
func (s *Service) Checkout(ctx context.Context, cart *Cart, c Customer) (Result, error) {
	if cart == nil || cart.Len() == 0 {
		return Result{}, ErrEmptyCart
	}
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	items := store.CloneItems(cart.Items)
	o := store.Order{
		ID:              s.newID(),
		Items:           items,
		TotalAmount:     Total(items),
		Status:          store.StatusPending,
		CreatedAt:       s.now().UnixMilli(),
		CustomerName:    c.Name,
		ContactMethod:   c.ContactMethod,
		ContactValue:    c.ContactValue,
		DeliveryAddress: c.DeliveryAddress,
		TableNumber:     OnlineTable,
	}

	if err := s.Store.AddOrder(ctx, o); err != nil {
		return Result{}, err
	}
	cart.Clear()

	res := Result{Order: o, ShortID: o.ShortID()}

	msg := handoff.Message(o, s.Location)
	link, err := handoff.TelegramLink(s.Store.Config().TelegramUsername, msg)
	if err != nil {
		s.logger().Warn("handoff link unavailable", zap.String("order_id", o.ID), zap.Error(err))
		res.HandoffError = err.Error()
		return res, nil
	}
	res.HandoffURL = link
	return res, nil
}

// CheckoutCart checks out a persisted cart. Once the order is placed a
// failure to save the emptied cart does not fail the call: it is reported
// as CartError and the placed lines stay hidden from later reads of the cart.
func (s *Service) CheckoutCart(ctx context.Context, cartID string, c Customer) (Result, error) {
	s.Carts.mu.Lock()
	defer s.Carts.mu.Unlock()

	cart, err := s.Carts.get(ctx, cartID)
	if err != nil {
		return Result{}, err
	}
	lines := cart.Items

	res, err := s.Checkout(ctx, cart, c)
	if err != nil {
		return Result{}, err
	}

	if err := s.Carts.save(ctx, cart); err != nil {
		s.logger().Warn("clear cart after checkout failed",
			zap.String("cart_id", cartID), zap.String("order_id", res.Order.ID), zap.Error(err))
		s.Carts.markPlaced(cartID, lines)
		res.CartError = err.Error()
	}
	return res, nil
}
