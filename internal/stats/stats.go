// Package stats computes the admin dashboard figures from an order list.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"FoodExpress/internal/store"
)

// Days is how many distinct calendar days RevenueByDay keeps.
const Days = 7

type DayRevenue struct {
	Date   string          `json:"date"`  // 2006-01-02
	Label  string          `json:"label"` // as shown to staff, 2/1/2006
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

type Dashboard struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalOrders     int             `json:"totalOrders"`
	CompletedOrders int             `json:"completedOrders"`
	CancelledOrders int             `json:"cancelledOrders"`
	TopProduct      string          `json:"topProduct,omitempty"`
	RevenueByDay    []DayRevenue    `json:"revenueByDay"`
}

// Compute ignores cancelled orders for revenue, the per-day series and the
// best seller. Days are calendar days in loc.
func Compute(orders []store.Order, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.UTC
	}

	d := Dashboard{
		TotalRevenue: decimal.Zero,
		TotalOrders:  len(orders),
		RevenueByDay: []DayRevenue{},
	}

	byDay := make(map[string]*DayRevenue)
	sold := make(map[string]int)
	for _, o := range orders {
		switch o.Status {
		case store.StatusCompleted:
			d.CompletedOrders++
		case store.StatusCancelled:
			d.CancelledOrders++
			continue
		}

		d.TotalRevenue = d.TotalRevenue.Add(o.TotalAmount)

		t := o.CreatedTime().In(loc)
		key := t.Format(time.DateOnly)
		day, ok := byDay[key]
		if !ok {
			day = &DayRevenue{Date: key, Label: t.Format("2/1/2006"), Amount: decimal.Zero}
			byDay[key] = day
		}
		day.Amount = day.Amount.Add(o.TotalAmount)
		day.Orders++

		for _, it := range o.Items {
			sold[it.Name] += it.Quantity
		}
	}

	for _, day := range byDay {
		d.RevenueByDay = append(d.RevenueByDay, *day)
	}
	sort.Slice(d.RevenueByDay, func(i, j int) bool {
		return d.RevenueByDay[i].Date < d.RevenueByDay[j].Date
	})
	if n := len(d.RevenueByDay); n > Days {
		d.RevenueByDay = d.RevenueByDay[n-Days:]
	}

	d.TopProduct = topSeller(sold)
	return d
}

// topSeller breaks ties by name so the result is stable.
func topSeller(sold map[string]int) string {
	var (
		best string
		qty  int
	)
	for name, n := range sold {
		if n > qty || (n == qty && name < best) {
			best, qty = name, n
		}
	}
	return best
}
