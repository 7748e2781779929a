// Package handoff builds the pre-filled message a customer sends to the
// shop after placing an order.
package handoff

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"FoodExpress/internal/pricing"
	"FoodExpress/internal/store"
)

var ErrNoChannel = errors.New("handoff: no telegram username configured")

// TimeLayout matches how Vietnamese locales print a timestamp.
const TimeLayout = "15:04:05 2/1/2006"

const rule = "--------------------------------"

// Message renders o for the shop. Timestamps are shown in loc.
func Message(o store.Order, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔥 ĐƠN HÀNG MỚI #%s\n", o.ShortID())
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "👤 Khách: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📞 LH: %s - %s\n", o.ContactMethod, o.ContactValue)
	if o.DeliveryAddress != "" {
		fmt.Fprintf(&b, "📍 Đ/C: %s\n", o.DeliveryAddress)
	}
	b.WriteString(rule + "\n")

	for i, it := range o.Items {
		fmt.Fprintf(&b, "%d. %s (x%d) - %s\n", i+1, it.Name, it.Quantity, pricing.USD(it.LineTotal()))
		if len(it.SelectedToppings) > 0 {
			names := make([]string, len(it.SelectedToppings))
			for j, t := range it.SelectedToppings {
				names[j] = t.Name
			}
			fmt.Fprintf(&b, "   + %s\n", strings.Join(names, ", "))
		}
		if it.Note != "" {
			fmt.Fprintf(&b, "   Note: %s\n", it.Note)
		}
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "💰 TỔNG CỘNG: %s\n", pricing.USD(o.TotalAmount))
	fmt.Fprintf(&b, "⏰ Thời gian: %s", o.CreatedTime().In(loc).Format(TimeLayout))
	return b.String()
}

// TelegramLink opens a chat with username, text pre-filled. Spaces are
// escaped as %20 rather than '+'.
func TelegramLink(username, message string) (string, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return "", ErrNoChannel
	}

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://t.me/" + url.PathEscape(username) + "?text=" + text, nil
}
