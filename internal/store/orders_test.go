package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FoodExpress/internal/store"
)

func TestItemsTotal_CheckoutScenario(t *testing.T) {
	items := []store.CartItem{item("l1", "2.50", 2, "0.50")}
	assert.True(t, store.ItemsTotal(items).Equal(money("6.00")))
}

func TestItemsTotal_SumsLines(t *testing.T) {
	items := []store.CartItem{
		item("l1", "4.00", 1, "0.50", "0.20"),
		item("l2", "0.10", 3),
		item("l3", "0.20", 1),
	}
	// 4.70 + 0.30 + 0.20, exact in decimal
	assert.True(t, store.ItemsTotal(items).Equal(money("5.20")))
}

func TestAddOrder_InsertsAtHead(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("o%d", i)
		require.NoError(t, s.AddOrder(ctx, pendingOrder(id, item("l", "1.00", i))))

		orders := s.Orders()
		require.Len(t, orders, i)
		assert.Equal(t, id, orders[0].ID)

		latest, ok := s.LatestOrder()
		require.True(t, ok)
		assert.Equal(t, id, latest.ID)
	}
	assert.Equal(t, "o1", s.Orders()[4].ID)
}

func TestAddOrder_Rejections(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddOrder(ctx, pendingOrder("dup", item("l1", "1.00", 1))))

	confirmed := pendingOrder("c1", item("l1", "1.00", 1))
	confirmed.Status = store.StatusConfirmed

	wrongTotal := pendingOrder("w1", item("l1", "2.50", 2, "0.50"))
	wrongTotal.TotalAmount = money("5.00")

	noID := pendingOrder("", item("l1", "1.00", 1))

	zeroQty := pendingOrder("z1", item("l1", "1.00", 0))

	cancelledReason := pendingOrder("r1", item("l1", "1.00", 1))
	cancelledReason.CancelReason = "x"

	cases := []struct {
		name  string
		order store.Order
		want  error
	}{
		{"not pending", confirmed, store.ErrInvalidOrder},
		{"total mismatch", wrongTotal, store.ErrTotalMismatch},
		{"duplicate id", pendingOrder("dup", item("l1", "1.00", 1)), store.ErrDuplicateID},
		{"missing id", noID, store.ErrInvalidOrder},
		{"no items", pendingOrder("e1"), store.ErrInvalidOrder},
		{"zero quantity", zeroQty, store.ErrInvalidOrder},
		{"reason without cancel", cancelledReason, store.ErrInvalidOrder},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddOrder(ctx, tc.order)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, store.IsRejection(err))
		})
	}
	assert.Len(t, s.Orders(), 1)
}

func TestUpdateOrderStatus_ForwardOnly(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddOrder(ctx, pendingOrder("o1", item("l1", "1.00", 1))))

	status := func() store.OrderStatus {
		o, ok := s.Order("o1")
		require.True(t, ok)
		return o.Status
	}

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "o1", store.StatusPreparing), store.ErrInvalidTransition)
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "o1", store.StatusCancelled), store.ErrInvalidTransition)
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "o1", store.StatusPending), store.ErrInvalidTransition)
	assert.Equal(t, store.StatusPending, status())

	for _, next := range []store.OrderStatus{store.StatusConfirmed, store.StatusPreparing, store.StatusCompleted} {
		require.NoError(t, s.UpdateOrderStatus(ctx, "o1", next))
		assert.Equal(t, next, status())
	}

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "o1", store.StatusConfirmed), store.ErrInvalidTransition)
	assert.Equal(t, store.StatusCompleted, status())
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddOrder(ctx, pendingOrder("o1", item("l1", "1.00", 1))))

	t.Run("empty reason rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.CancelOrder(ctx, "o1", ""), store.ErrReasonRequired)
		assert.ErrorIs(t, s.CancelOrder(ctx, "o1", "   "), store.ErrReasonRequired)

		o, _ := s.Order("o1")
		assert.Equal(t, store.StatusPending, o.Status)
		assert.Empty(t, o.CancelReason)
	})

	t.Run("pending order cancelled with reason", func(t *testing.T) {
		require.NoError(t, s.CancelOrder(ctx, "o1", "  hết hàng "))

		o, _ := s.Order("o1")
		assert.Equal(t, store.StatusCancelled, o.Status)
		assert.Equal(t, "hết hàng", o.CancelReason)
	})

	t.Run("cancelled order cannot advance", func(t *testing.T) {
		assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "o1", store.StatusConfirmed), store.ErrInvalidTransition)
	})
}

func TestCancelOrder_CompletedIsRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddOrder(ctx, pendingOrder("o1", item("l1", "1.00", 1))))
	for _, next := range []store.OrderStatus{store.StatusConfirmed, store.StatusPreparing, store.StatusCompleted} {
		require.NoError(t, s.UpdateOrderStatus(ctx, "o1", next))
	}

	err := s.CancelOrder(ctx, "o1", "khách đổi ý")
	assert.ErrorIs(t, err, store.ErrCancelNotAllowed)

	o, _ := s.Order("o1")
	assert.Equal(t, store.StatusCompleted, o.Status)
	assert.Empty(t, o.CancelReason)
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddOrder(ctx, pendingOrder("o1", item("l1", "1.00", 1))))

	edited, _ := s.Order("o1")
	edited.Items = append(edited.Items, item("l2", "2.50", 2, "0.50"))
	edited.ContactValue = "@lan"
	edited.ContactMethod = store.ContactTelegram

	t.Run("stale total rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.UpdateOrder(ctx, edited), store.ErrTotalMismatch)
	})

	t.Run("recomputed total accepted", func(t *testing.T) {
		edited.TotalAmount = store.ItemsTotal(edited.Items)
		require.NoError(t, s.UpdateOrder(ctx, edited))

		got, _ := s.Order("o1")
		assert.Len(t, got.Items, 2)
		assert.True(t, got.TotalAmount.Equal(money("7.00")))
		assert.Equal(t, "@lan", got.ContactValue)
	})

	t.Run("status change rejected", func(t *testing.T) {
		moved := edited
		moved.Status = store.StatusCompleted
		assert.ErrorIs(t, s.UpdateOrder(ctx, moved), store.ErrInvalidTransition)
	})
}

func TestOrderLookups(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	old := pendingOrder("aaaa1b2c", item("l1", "1.00", 1))
	old.CreatedAt = 1000
	old.TableNumber = "T5"
	newer := pendingOrder("bbbb9z9z", item("l1", "1.00", 1))
	newer.CreatedAt = 2000
	require.NoError(t, s.AddOrder(ctx, old))
	require.NoError(t, s.AddOrder(ctx, newer))
	require.NoError(t, s.UpdateOrderStatus(ctx, "bbbb9z9z", store.StatusConfirmed))

	o, ok := s.FindOrderBySuffix("1B2C")
	require.True(t, ok)
	assert.Equal(t, "aaaa1b2c", o.ID)
	assert.Equal(t, "1B2C", o.ShortID())

	_, ok = s.FindOrderBySuffix("")
	assert.False(t, ok)

	queue := s.KitchenQueue("")
	require.Len(t, queue, 2)
	assert.Equal(t, "aaaa1b2c", queue[0].ID, "pending first even when older")

	assert.Len(t, s.KitchenQueue("t5"), 1)
	assert.Len(t, s.ActiveOrders(), 2)
}
