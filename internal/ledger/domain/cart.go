package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a single cart line may hold.
const MaxQuantity = math.MaxInt32

type CartLine struct {
	ItemID   int
	Quantity int
}

// Cart holds one user's lines plus the derived totals. Subtotal, Shipping and
// Total are only written by Recompute and Reset.
type Cart struct {
	Lines    []CartLine
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

func (c *Cart) Quantity(itemID int) (int, bool) {
	for _, ln := range c.Lines {
		if ln.ItemID == itemID {
			return ln.Quantity, true
		}
	}
	return 0, false
}

// CanAdd reports whether quantity more of itemID keeps the line within
// MaxQuantity.
func (c *Cart) CanAdd(itemID, quantity int) bool {
	if quantity <= 0 || quantity > MaxQuantity {
		return false
	}
	held, _ := c.Quantity(itemID)
	return held <= MaxQuantity-quantity
}

// Add accumulates quantity into the line for itemID, appending a new line
// when none exists.
func (c *Cart) Add(itemID, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ItemID: itemID, Quantity: quantity})
}

// Remove takes quantity off the line for itemID. A line whose stored quantity
// is not greater than quantity is dropped. It reports whether a line existed.
func (c *Cart) Remove(itemID, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ItemID != itemID {
			continue
		}
		if c.Lines[i].Quantity <= quantity {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity -= quantity
		}
		return true
	}
	return false
}

func (c *Cart) Reset() {
	c.Lines = nil
	c.Subtotal = decimal.Zero
	c.Shipping = decimal.Zero
	c.Total = decimal.Zero
}

// Recompute derives subtotal, shipping and total from the lines. Lines whose
// item is not in the catalog contribute nothing.
func (c *Cart) Recompute(catalog Catalog, settings Settings) {
	subtotal := decimal.Zero
	for _, ln := range c.Lines {
		item, ok := catalog.Item(ln.ItemID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))))
	}
	shipping := settings.ShippingFor(subtotal)

	c.Subtotal = subtotal
	c.Shipping = shipping
	c.Total = subtotal.Add(shipping)
}

func (c Cart) Clone() Cart {
	c.Lines = append([]CartLine(nil), c.Lines...)
	return c
}

func EmptyCart() Cart {
	return Cart{
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
}
