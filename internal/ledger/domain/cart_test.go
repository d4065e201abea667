package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCartAddRemove(t *testing.T) {
	t.Run("add accumulates into existing line", func(t *testing.T) {
		var c Cart
		c.Add(1, 2)
		c.Add(3, 1)
		c.Add(1, 3)
		if len(c.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(c.Lines))
		}
		if q, _ := c.Quantity(1); q != 5 {
			t.Fatalf("expected qty 5, got %d", q)
		}
		if c.Lines[0].ItemID != 1 || c.Lines[1].ItemID != 3 {
			t.Fatalf("line order changed: %+v", c.Lines)
		}
	})

	t.Run("remove less than stored decrements", func(t *testing.T) {
		c := Cart{Lines: []CartLine{{ItemID: 1, Quantity: 4}, {ItemID: 2, Quantity: 1}}}
		if !c.Remove(1, 3) {
			t.Fatal("expected line to exist")
		}
		if q, _ := c.Quantity(1); q != 1 {
			t.Fatalf("expected qty 1, got %d", q)
		}
		if q, _ := c.Quantity(2); q != 1 {
			t.Fatalf("other line touched: %d", q)
		}
	})

	t.Run("remove at least stored deletes line", func(t *testing.T) {
		c := Cart{Lines: []CartLine{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}}
		c.Remove(1, 2)
		if _, ok := c.Quantity(1); ok {
			t.Fatal("expected line to be deleted")
		}
		c.Remove(2, 10)
		if len(c.Lines) != 0 {
			t.Fatalf("expected empty cart, got %+v", c.Lines)
		}
	})

	t.Run("remove missing line reports false", func(t *testing.T) {
		var c Cart
		if c.Remove(9, 1) {
			t.Fatal("expected false")
		}
	})
}

func TestCartRecompute(t *testing.T) {
	doc := DefaultDocument()

	tests := []struct {
		name     string
		lines    []CartLine
		subtotal string
		shipping string
		total    string
	}{
		{"below threshold", []CartLine{{1, 1}}, "15", "5", "20"},
		{"unknown item beside known one", []CartLine{{1, 1}, {99, 3}}, "15", "5", "20"},
		{"over threshold", []CartLine{{1, 1}, {3, 1}}, "40", "0", "40"},
		{"at threshold is free", []CartLine{{3, 1}}, "25", "0", "25"},
		{"unknown item contributes zero", []CartLine{{42, 7}}, "0", "5", "5"},
		{"empty", nil, "0", "5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cart{Lines: tt.lines}
			c.Recompute(doc.Catalog, doc.Settings)
			if !c.Subtotal.Equal(dec(tt.subtotal)) || !c.Shipping.Equal(dec(tt.shipping)) || !c.Total.Equal(dec(tt.total)) {
				t.Fatalf("got subtotal=%s shipping=%s total=%s", c.Subtotal, c.Shipping, c.Total)
			}
			if !c.Total.Equal(c.Subtotal.Add(c.Shipping)) {
				t.Fatal("total != subtotal + shipping")
			}
		})
	}
}

func TestShippingInfo(t *testing.T) {
	settings := Settings{ShippingFee: dec("5.00"), MinOrder: dec("20.00")}

	info := NewShippingInfo(CartView{Subtotal: dec("12.00"), Shipping: dec("5.00"), Total: dec("17.00")}, settings)
	if info.FreeShippingEligible {
		t.Fatal("expected not eligible")
	}
	if !info.AmountNeededForFreeShipping.Equal(dec("8.00")) {
		t.Fatalf("expected 8.00 needed, got %s", info.AmountNeededForFreeShipping)
	}

	info = NewShippingInfo(CartView{Subtotal: dec("40.00"), Total: dec("40.00")}, settings)
	if !info.FreeShippingEligible || !info.AmountNeededForFreeShipping.IsZero() {
		t.Fatalf("expected free shipping, got %+v", info)
	}
}

func TestCartViewUnresolved(t *testing.T) {
	doc := DefaultDocument()
	c := Cart{Lines: []CartLine{{ItemID: 77, Quantity: 1}, {ItemID: 2, Quantity: 2}}}
	c.Recompute(doc.Catalog, doc.Settings)

	v := NewCartView(c, doc.Catalog)
	if len(v.Details) != 1 || v.Details[0].Item.ID != 2 {
		t.Fatalf("unexpected details: %+v", v.Details)
	}
	if !v.Details[0].LineTotal.Equal(dec("70")) {
		t.Fatalf("expected line total 70, got %s", v.Details[0].LineTotal)
	}
	if len(v.Unresolved) != 1 || v.Unresolved[0] != 77 {
		t.Fatalf("expected unresolved [77], got %v", v.Unresolved)
	}
}

func TestOrdersKeepInsertionOrder(t *testing.T) {
	var o Orders
	o.Put(30, EmptyCart())
	o.Put(10, EmptyCart())
	o.Put(20, EmptyCart())
	o.Put(10, Cart{Lines: []CartLine{{1, 1}}})

	got := o.Users()
	want := []int64{30, 10, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	o.Delete(10)
	if o.Len() != 2 {
		t.Fatalf("expected 2 users, got %d", o.Len())
	}
	if _, ok := o.Get(10); ok {
		t.Fatal("expected user 10 removed")
	}

	clone := o.Clone()
	c, _ := clone.Get(30)
	c.Add(5, 1)
	orig, _ := o.Get(30)
	if len(orig.Lines) != 0 {
		t.Fatal("clone shares cart lines with original")
	}
}

func TestCatalogLookups(t *testing.T) {
	cat := DefaultDocument().Catalog

	if items := cat.Items("Pants"); len(items) != 2 || items[0].ID != 3 {
		t.Fatalf("unexpected pants: %+v", items)
	}
	if items := cat.Items("Hats"); items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
	if _, ok := cat.Item(404); ok {
		t.Fatal("expected miss")
	}
	if it, ok := cat.Item(6); !ok || it.Name != "YSL" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if cat.ItemCount() != 6 {
		t.Fatalf("expected 6 items, got %d", cat.ItemCount())
	}
}
