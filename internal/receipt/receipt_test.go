package receipt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"FoodExpress/internal/receipt"
	"FoodExpress/internal/store"
)

func money(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleOrder() store.Order {
	items := []store.CartItem{
		{
			Product:  store.Product{ID: "p1", Name: "Trà Sữa", Price: money("2.50")},
			CartID:   "l1",
			Quantity: 2,
			SelectedToppings: []store.Topping{
				{ID: "t1", Name: "Trân châu đen", Price: money("0.50")},
				{ID: "t2", Name: "Pudding", Price: money("0")},
			},
			Note: "ít đá",
		},
		{
			Product:  store.Product{ID: "p5", Name: "Bánh Plan", Price: money("1")},
			CartID:   "l2",
			Quantity: 1,
		},
	}
	return store.Order{
		ID:              "k2j3h9xyz",
		Items:           items,
		TotalAmount:     store.ItemsTotal(items),
		Status:          store.StatusCompleted,
		CreatedAt:       time.Date(2026, 10, 1, 5, 4, 3, 0, time.UTC).UnixMilli(),
		CustomerName:    "Lan",
		ContactMethod:   store.ContactPhone,
		ContactValue:    "0909123456",
		DeliveryAddress: "12 Lê Lợi",
		TableNumber:     "Online",
	}
}

func render(t *testing.T, o store.Order, opts receipt.Options) []string {
	t.Helper()

	var b strings.Builder
	require.NoError(t, receipt.Render(&b, o, store.DefaultConfig(), opts))
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

func TestRender(t *testing.T) {
	lines := render(t, sampleOrder(), receipt.Options{Location: time.FixedZone("ICT", 7*3600)})

	for _, l := range lines {
		assert.LessOrEqual(t, receipt.Width(l), receipt.DefaultWidth, l)
	}

	assert.Equal(t, "          FOODEXPRESS", lines[0])
	assert.Contains(t, lines, "       Hotline: 1900 1234")
	assert.Contains(t, lines, "HÓA ĐƠN THANH TOÁN")
	assert.Contains(t, lines, "Mã ĐH: #9XYZ")
	assert.Contains(t, lines, "Ngày: 12:04:03 1/10/2026")
	assert.Contains(t, lines, "Khách: Lan")
	assert.Contains(t, lines, "LH: 0909123456")
	assert.Contains(t, lines, "Đ/C: 12 Lê Lợi")

	assert.Contains(t, lines, "Món                  SL       $$")
	assert.Contains(t, lines, "Trà Sữa               2    $6.00")
	assert.Contains(t, lines, "  + Trân châu đen, Pudding")
	assert.Contains(t, lines, "  (ít đá)")
	assert.Contains(t, lines, "Bánh Plan             1    $1.00")

	assert.Contains(t, lines, "TỔNG USD:                  $7.00")
	assert.Contains(t, lines, "Quy đổi KHR:             28,700៛")
	assert.Contains(t, lines, "Quy đổi VND:            175,000₫")

	assert.Equal(t, "          Hẹn gặp lại!", lines[len(lines)-1])
}

func TestRender_OptionalFieldsOmitted(t *testing.T) {
	o := sampleOrder()
	o.CustomerName = ""
	o.DeliveryAddress = ""

	out := strings.Join(render(t, o, receipt.Options{}), "\n")
	assert.NotContains(t, out, "Khách:")
	assert.NotContains(t, out, "Đ/C:")
	assert.Contains(t, out, "LH: 0909123456")
}

func TestRender_WrapsLongNames(t *testing.T) {
	o := sampleOrder()
	o.Items[1].Name = "Bánh Flan Caramel Cốt Dừa Siêu To Khổng Lồ"

	lines := render(t, o, receipt.Options{})
	for _, l := range lines {
		assert.LessOrEqual(t, receipt.Width(l), receipt.DefaultWidth, l)
	}
	assert.Contains(t, lines, "Bánh Flan Caramel     1    $1.00")
	assert.Contains(t, lines, "Cốt Dừa Siêu To")
	assert.Contains(t, lines, "Khổng Lồ")
}

func TestRender_DecomposedInput(t *testing.T) {
	o := sampleOrder()
	o.Items[1].Name = norm.NFD.String("Bánh Plan")

	lines := render(t, o, receipt.Options{})
	assert.Contains(t, lines, "Bánh Plan             1    $1.00")
}

func TestRender_Width(t *testing.T) {
	lines := render(t, sampleOrder(), receipt.Options{Width: 48})

	assert.Contains(t, lines, strings.Repeat("=", 48))
	for _, l := range lines {
		assert.LessOrEqual(t, receipt.Width(l), 48, l)
	}
}

func TestWidth(t *testing.T) {
	assert.Equal(t, 5, receipt.Width(norm.NFD.String("Đường")))
	assert.Equal(t, 5, receipt.Width("Đường"))
}
