package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money is persisted and served as JSON numbers. Quoted strings still decode.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Topping struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product.Category holds the category's display name. It is a soft
// reference: renaming or deleting the category never rewrites products.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	CategoryID  string          `json:"categoryId,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	Toppings    []Topping       `json:"toppings"`
}

// Topping returns the product's topping with the given id.
func (p Product) Topping(id string) (Topping, bool) {
	for _, t := range p.Toppings {
		if t.ID == id {
			return t, true
		}
	}
	return Topping{}, false
}

// CartItem is a value copy of a product taken when the customer picked it.
// Later edits to the product never reach existing cart lines or orders.
type CartItem struct {
	Product

	CartID           string    `json:"cartId"`
	Quantity         int       `json:"quantity"`
	SelectedToppings []Topping `json:"selectedToppings"`
	Note             string    `json:"note,omitempty"`
}

// UnitPrice is the item price plus every selected topping.
func (it CartItem) UnitPrice() decimal.Decimal {
	unit := it.Price
	for _, t := range it.SelectedToppings {
		unit = unit.Add(t.Price)
	}
	return unit
}

func (it CartItem) LineTotal() decimal.Decimal {
	return it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ItemsTotal is the order total every stored order must carry.
func ItemsTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type ContactMethod string

const (
	ContactPhone    ContactMethod = "Điện thoại"
	ContactTelegram ContactMethod = "Telegram"
	ContactFacebook ContactMethod = "Facebook"
	ContactWeChat   ContactMethod = "WeChat"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case ContactPhone, ContactTelegram, ContactFacebook, ContactWeChat:
		return true
	}
	return false
}

type Order struct {
	ID              string          `json:"id"`
	Items           []CartItem      `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       int64           `json:"createdAt"`
	CustomerName    string          `json:"customerName,omitempty"`
	ContactMethod   ContactMethod   `json:"contactMethod"`
	ContactValue    string          `json:"contactValue"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	TableNumber     string          `json:"tableNumber,omitempty"`
	CancelReason    string          `json:"cancelReason,omitempty"`
}

// CreatedTime converts the stored Unix milliseconds.
func (o Order) CreatedTime() time.Time {
	return time.UnixMilli(o.CreatedAt)
}

// ShortID is the four-character code shown to customers and on receipts.
func (o Order) ShortID() string {
	return ShortID(o.ID)
}

type ContactLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	IsActive bool   `json:"isActive"`
}

type SystemConfig struct {
	StoreName               string          `json:"storeName"`
	StoreAddress            string          `json:"storeAddress"`
	StorePhone              string          `json:"storePhone"`
	TelegramUsername        string          `json:"telegramUsername"`
	ExchangeRateKHR         decimal.Decimal `json:"exchangeRateKHR"`
	ExchangeRateVND         decimal.Decimal `json:"exchangeRateVND"`
	BannerURL               string          `json:"bannerUrl"`
	NotificationText        string          `json:"notificationText"`
	KitchenNotificationText string          `json:"kitchenNotificationText"`
	ContactLinks            []ContactLink   `json:"contactLinks"`
}

// ActiveContactLinks keeps the configured order.
func (c SystemConfig) ActiveContactLinks() []ContactLink {
	out := make([]ContactLink, 0, len(c.ContactLinks))
	for _, l := range c.ContactLinks {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out
}

// Snapshot is one consistent view of the four collections.
type Snapshot struct {
	Products   []Product    `json:"products"`
	Categories []Category   `json:"categories"`
	Orders     []Order      `json:"orders"`
	Config     SystemConfig `json:"config"`
}

func cloneProduct(p Product) Product {
	cp := p
	cp.Toppings = append([]Topping(nil), p.Toppings...)
	return cp
}

func cloneItem(it CartItem) CartItem {
	cp := it
	cp.Product = cloneProduct(it.Product)
	cp.SelectedToppings = append([]Topping(nil), it.SelectedToppings...)
	return cp
}

// CloneItems deep-copies order or cart lines.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneOrder(o Order) Order {
	cp := o
	cp.Items = CloneItems(o.Items)
	return cp
}

func cloneConfig(c SystemConfig) SystemConfig {
	cp := c
	cp.ContactLinks = append([]ContactLink(nil), c.ContactLinks...)
	return cp
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}

func cloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = cloneOrder(o)
	}
	return out
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{
		Products:   cloneProducts(s.Products),
		Categories: append([]Category(nil), s.Categories...),
		Orders:     cloneOrders(s.Orders),
		Config:     cloneConfig(s.Config),
	}
}
