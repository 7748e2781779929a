// Package pricing renders USD amounts together with their riel and dong
// equivalents.
package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"FoodExpress/internal/store"
)

const (
	SymbolKHR = "៛"
	SymbolVND = "₫"

	// Converted amounts are rounded to these units.
	khrStep = -2 // hundreds
	vndStep = -3 // thousands
)

// Rates are units of local currency per US dollar.
type Rates struct {
	KHR decimal.Decimal `json:"khr"`
	VND decimal.Decimal `json:"vnd"`
}

func RatesFrom(cfg store.SystemConfig) Rates {
	return Rates{KHR: cfg.ExchangeRateKHR, VND: cfg.ExchangeRateVND}
}

type Prices struct {
	USD      string `json:"usd"`
	KHR      string `json:"khr"`
	VND      string `json:"vnd"`
	Combined string `json:"combined"`
}

var printer = message.NewPrinter(language.English)

// Format rounds half away from zero on exact decimals, so 2.50 at 4100
// riel is 10,300៛ and at 25000 dong is 63,000₫.
func Format(usd decimal.Decimal, r Rates) Prices {
	p := Prices{
		USD: USD(usd),
		KHR: grouped(KHR(usd, r)) + SymbolKHR,
		VND: grouped(VND(usd, r)) + SymbolVND,
	}
	p.Combined = p.USD + " / " + p.KHR + " / " + p.VND
	return p
}

func USD(usd decimal.Decimal) string {
	return "$" + usd.StringFixed(2)
}

// KHR is the riel amount rounded to the nearest hundred.
func KHR(usd decimal.Decimal, r Rates) int64 {
	return usd.Mul(r.KHR).Round(khrStep).IntPart()
}

// VND is the dong amount rounded to the nearest thousand.
func VND(usd decimal.Decimal, r Rates) int64 {
	return usd.Mul(r.VND).Round(vndStep).IntPart()
}

func grouped(n int64) string {
	return printer.Sprintf("%d", n)
}
