package store

import (
	"context"
	"fmt"
	"strings"

	"FoodExpress/internal/kv"
)

func (s *Store) readOrders(ctx context.Context) ([]Order, error) {
	return readDoc[[]Order](ctx, s.origin.KV, kv.KeyOrders, nil)
}

func (s *Store) writeOrders(ctx context.Context, orders []Order) error {
	return writeDoc(ctx, s.origin.KV, kv.KeyOrders, orders)
}

func indexOrder(orders []Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func validateItems(items []CartItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: no items", ErrInvalidOrder)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be positive (line %s)", ErrInvalidOrder, it.CartID)
		}
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: negative price (line %s)", ErrInvalidOrder, it.CartID)
		}
		for _, t := range it.SelectedToppings {
			if t.Price.IsNegative() {
				return fmt.Errorf("%w: negative topping price (line %s)", ErrInvalidOrder, it.CartID)
			}
		}
	}
	return nil
}

func checkTotal(o Order) error {
	want := ItemsTotal(o.Items)
	if !o.TotalAmount.Equal(want) {
		return fmt.Errorf("%w: got %s, items sum to %s", ErrTotalMismatch, o.TotalAmount, want)
	}
	return nil
}

func validateOrder(o Order) error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidOrder)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, o.Status)
	}
	if (o.Status == StatusCancelled) != (o.CancelReason != "") {
		return fmt.Errorf("%w: cancel reason must be set exactly when cancelled", ErrInvalidOrder)
	}
	if err := validateItems(o.Items); err != nil {
		return err
	}
	return checkTotal(o)
}

// AddOrder stores a new PENDING order at the head of the collection.
func (s *Store) AddOrder(ctx context.Context, o Order) error {
	return s.mutate(ctx, "add_order", func(ctx context.Context) error {
		if o.Status != StatusPending {
			return fmt.Errorf("%w: new orders start as %s, got %q", ErrInvalidOrder, StatusPending, o.Status)
		}
		if err := validateOrder(o); err != nil {
			return err
		}

		orders, err := s.readOrders(ctx)
		if err != nil {
			return err
		}
		if indexOrder(orders, o.ID) >= 0 {
			return fmt.Errorf("%w: order %s", ErrDuplicateID, o.ID)
		}

		orders = append([]Order{cloneOrder(o)}, orders...)
		return s.writeOrders(ctx, orders)
	})
}

// UpdateOrderStatus moves an order one step forward. Anything other than
// the single next status is rejected; cancelling goes through CancelOrder.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, next OrderStatus) error {
	return s.mutate(ctx, "update_order_status", func(ctx context.Context) error {
		orders, err := s.readOrders(ctx)
		if err != nil {
			return err
		}
		i := indexOrder(orders, id)
		if i < 0 {
			return errNoMatch
		}

		cur := orders[i].Status
		if want, ok := Next(cur); !ok || next != want {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, next)
		}

		orders[i].Status = next
		return s.writeOrders(ctx, orders)
	})
}

// UpdateOrder replaces an order wholesale, for admin line-item and contact
// edits. The caller recomputes TotalAmount; the status cannot change here.
func (s *Store) UpdateOrder(ctx context.Context, o Order) error {
	return s.mutate(ctx, "update_order", func(ctx context.Context) error {
		if err := validateOrder(o); err != nil {
			return err
		}

		orders, err := s.readOrders(ctx)
		if err != nil {
			return err
		}
		i := indexOrder(orders, o.ID)
		if i < 0 {
			return errNoMatch
		}
		if cur := orders[i].Status; o.Status != cur {
			return fmt.Errorf("%w: %s -> %s through order edit", ErrInvalidTransition, cur, o.Status)
		}

		orders[i] = cloneOrder(o)
		return s.writeOrders(ctx, orders)
	})
}

// CancelOrder cancels a PENDING order with a mandatory reason.
func (s *Store) CancelOrder(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)

	return s.mutate(ctx, "cancel_order", func(ctx context.Context) error {
		if reason == "" {
			return ErrReasonRequired
		}

		orders, err := s.readOrders(ctx)
		if err != nil {
			return err
		}
		i := indexOrder(orders, id)
		if i < 0 {
			return errNoMatch
		}
		if cur := orders[i].Status; !CanCancel(cur) {
			return fmt.Errorf("%w: order %s is %s", ErrCancelNotAllowed, id, cur)
		}

		orders[i].Status = StatusCancelled
		orders[i].CancelReason = reason
		return s.writeOrders(ctx, orders)
	})
}
