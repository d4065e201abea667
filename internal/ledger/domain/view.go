package domain

import "github.com/shopspring/decimal"

type LineDetail struct {
	Item      CatalogItem
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView is a cart as shown to a user: the stored lines and totals, the
// lines expanded with catalog details, and the ids of lines whose item is no
// longer in the catalog.
type CartView struct {
	Lines      []CartLine
	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	Total      decimal.Decimal
	Details    []LineDetail
	Unresolved []int
}

func NewCartView(cart Cart, catalog Catalog) CartView {
	view := CartView{
		Lines:      append([]CartLine{}, cart.Lines...),
		Subtotal:   cart.Subtotal,
		Shipping:   cart.Shipping,
		Total:      cart.Total,
		Details:    []LineDetail{},
		Unresolved: []int{},
	}
	for _, ln := range cart.Lines {
		item, ok := catalog.Item(ln.ItemID)
		if !ok {
			view.Unresolved = append(view.Unresolved, ln.ItemID)
			continue
		}
		view.Details = append(view.Details, LineDetail{
			Item:      item.Clone(),
			Quantity:  ln.Quantity,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))),
		})
	}
	return view
}

func (v CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

type ShippingInfo struct {
	Subtotal                    decimal.Decimal
	ShippingFee                 decimal.Decimal
	Total                       decimal.Decimal
	FreeShippingEligible        bool
	AmountNeededForFreeShipping decimal.Decimal
	MinOrderForFreeShipping     decimal.Decimal
}

// NewShippingInfo reports the shipping charged on view and how far the cart
// is from the free-shipping threshold.
func NewShippingInfo(view CartView, settings Settings) ShippingInfo {
	needed := settings.MinOrder.Sub(view.Subtotal)
	if needed.IsNegative() {
		needed = decimal.Zero
	}
	return ShippingInfo{
		Subtotal:                    view.Subtotal,
		ShippingFee:                 view.Shipping,
		Total:                       view.Total,
		FreeShippingEligible:        view.Subtotal.GreaterThanOrEqual(settings.MinOrder),
		AmountNeededForFreeShipping: needed,
		MinOrderForFreeShipping:     settings.MinOrder,
	}
}
