// Package present renders carts and shipping details as chat messages.
package present

import (
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter formats amounts in the ISO 4217 currency code for lang.
func NewFormatter(lang language.Tag, code string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &Formatter{printer: message.NewPrinter(lang), unit: unit}, nil
}

func (f *Formatter) Money(d decimal.Decimal) string {
	v, _ := d.Float64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

func (f *Formatter) CartText(v domain.CartView) string {
	if v.IsEmpty() {
		return "Your cart is empty."
	}

	var b strings.Builder
	b.WriteString("Your cart:\n")
	for _, d := range v.Details {
		fmt.Fprintf(&b, "• %s x%d - %s\n", d.Item.Name, d.Quantity, f.Money(d.LineTotal))
	}
	if n := len(v.Unresolved); n > 0 {
		b.WriteString(f.printer.Sprintf("(%d item(s) in your cart are no longer sold)\n", n))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", f.Money(v.Subtotal))
	if v.Shipping.IsZero() {
		b.WriteString("Shipping: FREE\n")
	} else {
		fmt.Fprintf(&b, "Shipping: %s\n", f.Money(v.Shipping))
	}
	fmt.Fprintf(&b, "Total: %s", f.Money(v.Total))
	return b.String()
}

func (f *Formatter) ShippingText(s domain.ShippingInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Free shipping on orders of %s or more.\n", f.Money(s.MinOrderForFreeShipping))
	if s.FreeShippingEligible {
		b.WriteString("Your order ships free!")
		return b.String()
	}
	fmt.Fprintf(&b, "Shipping fee: %s\n", f.Money(s.ShippingFee))
	fmt.Fprintf(&b, "Add %s more to get free shipping.", f.Money(s.AmountNeededForFreeShipping))
	return b.String()
}
