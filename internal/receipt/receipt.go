// Package receipt renders a fixed-width text receipt for thermal printers.
package receipt

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"FoodExpress/internal/handoff"
	"FoodExpress/internal/pricing"
	"FoodExpress/internal/store"
)

const (
	DefaultWidth = 32
	minWidth     = 24

	qtyWidth    = 4
	amountWidth = 9
)

type Options struct {
	// Width in columns; DefaultWidth when zero. Values below 24 are raised.
	Width    int
	Location *time.Location
}

func (o Options) normalize() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Width < minWidth {
		o.Width = minWidth
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

type printer struct {
	w     *bufio.Writer
	width int
}

// Render writes the receipt for o using the shop details and rates in cfg.
func Render(w io.Writer, o store.Order, cfg store.SystemConfig, opts Options) error {
	opts = opts.normalize()
	p := &printer{w: bufio.NewWriter(w), width: opts.Width}

	for _, l := range wrap(strings.ToUpper(cfg.StoreName), p.width) {
		p.center(l)
	}
	for _, l := range wrap(cfg.StoreAddress, p.width) {
		p.center(l)
	}
	if cfg.StorePhone != "" {
		p.center("Hotline: " + cfg.StorePhone)
	}
	p.rule('=')

	p.line("HÓA ĐƠN THANH TOÁN")
	p.line("Mã ĐH: #" + o.ShortID())
	p.line("Ngày: " + o.CreatedTime().In(opts.Location).Format(handoff.TimeLayout))
	if o.CustomerName != "" {
		p.wrapped("Khách: " + o.CustomerName)
	}
	if o.ContactValue != "" {
		p.wrapped("LH: " + o.ContactValue)
	}
	if o.DeliveryAddress != "" {
		p.wrapped("Đ/C: " + o.DeliveryAddress)
	}
	p.rule('-')

	nameWidth := p.width - qtyWidth - amountWidth
	p.row(nameWidth, "Món", "SL", "$$")
	for _, it := range o.Items {
		names := wrap(it.Name, nameWidth-1)
		if len(names) == 0 {
			names = []string{""}
		}
		p.row(nameWidth, names[0], strconv.Itoa(it.Quantity), pricing.USD(it.LineTotal()))
		for _, n := range names[1:] {
			p.line(n)
		}

		if len(it.SelectedToppings) > 0 {
			toppings := make([]string, len(it.SelectedToppings))
			for i, t := range it.SelectedToppings {
				toppings[i] = t.Name
			}
			for _, l := range wrap("+ "+strings.Join(toppings, ", "), p.width-2) {
				p.line("  " + l)
			}
		}
		if it.Note != "" {
			for _, l := range wrap("("+it.Note+")", p.width-2) {
				p.line("  " + l)
			}
		}
	}
	p.rule('-')

	prices := pricing.Format(o.TotalAmount, pricing.RatesFrom(cfg))
	p.pair("TỔNG USD:", prices.USD)
	p.pair("Quy đổi KHR:", prices.KHR)
	p.pair("Quy đổi VND:", prices.VND)

	p.line("")
	p.center("Cảm ơn quý khách đã ủng hộ!")
	p.center("Hẹn gặp lại!")

	return p.w.Flush()
}

func (p *printer) line(s string) {
	_, _ = p.w.WriteString(strings.TrimRight(s, " ") + "\n")
}

func (p *printer) wrapped(s string) {
	for _, l := range wrap(s, p.width) {
		p.line(l)
	}
}

func (p *printer) rule(c rune) {
	p.line(strings.Repeat(string(c), p.width))
}

func (p *printer) center(s string) {
	pad := (p.width - Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	p.line(strings.Repeat(" ", pad) + s)
}

func (p *printer) pair(label, value string) {
	gap := p.width - Width(label) - Width(value)
	if gap < 1 {
		p.line(label)
		p.line(padLeft(value, p.width))
		return
	}
	p.line(label + strings.Repeat(" ", gap) + value)
}

func (p *printer) row(nameWidth int, name, qty, amount string) {
	p.line(padRight(name, nameWidth) + padLeft(qty, qtyWidth) + padLeft(amount, amountWidth))
}

// Width is the number of columns s occupies, counted in runes of its NFC
// form so combining marks do not widen Vietnamese text.
func Width(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

func padRight(s string, n int) string {
	if w := Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

func padLeft(s string, n int) string {
	if w := Width(s); w < n {
		return strings.Repeat(" ", n-w) + s
	}
	return s
}

// wrap breaks s into NFC lines of at most width runes, splitting on spaces
// and hard-cutting words that are longer than a line.
func wrap(s string, width int) []string {
	var (
		lines []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}

	for _, word := range strings.Fields(norm.NFC.String(s)) {
		wr := []rune(word)
		for len(wr) > width {
			flush()
			lines = append(lines, string(wr[:width]))
			wr = wr[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, wr...)
		case len(cur)+1+len(wr) <= width:
			cur = append(cur, ' ')
			cur = append(cur, wr...)
		default:
			flush()
			cur = append(cur, wr...)
		}
	}
	flush()
	return lines
}
