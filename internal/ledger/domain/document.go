package domain

import "github.com/shopspring/decimal"

type Settings struct {
	ShippingFee decimal.Decimal
	MinOrder    decimal.Decimal
}

// ShippingFor returns zero once subtotal reaches the free-shipping threshold
// and the flat fee otherwise.
func (s Settings) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(s.MinOrder) {
		return decimal.Zero
	}
	return s.ShippingFee
}

// Orders maps user ids to carts and remembers the order in which users were
// first added.
type Orders struct {
	users []int64
	carts map[int64]*Cart
}

func (o *Orders) Get(userID int64) (*Cart, bool) {
	c, ok := o.carts[userID]
	return c, ok
}

// Put stores cart for userID, keeping the user's original position when the
// user already has an entry.
func (o *Orders) Put(userID int64, cart Cart) {
	if o.carts == nil {
		o.carts = make(map[int64]*Cart)
	}
	if existing, ok := o.carts[userID]; ok {
		*existing = cart
		return
	}
	o.users = append(o.users, userID)
	o.carts[userID] = &cart
}

func (o *Orders) Delete(userID int64) {
	if _, ok := o.carts[userID]; !ok {
		return
	}
	delete(o.carts, userID)
	for i, id := range o.users {
		if id == userID {
			o.users = append(o.users[:i:i], o.users[i+1:]...)
			break
		}
	}
}

// Users returns user ids in insertion order.
func (o *Orders) Users() []int64 {
	return append([]int64(nil), o.users...)
}

func (o *Orders) Len() int {
	return len(o.users)
}

func (o *Orders) Clone() Orders {
	out := Orders{
		users: append([]int64(nil), o.users...),
		carts: make(map[int64]*Cart, len(o.carts)),
	}
	for id, c := range o.carts {
		cp := c.Clone()
		out.carts[id] = &cp
	}
	return out
}

// Document is the complete persisted ledger state.
type Document struct {
	Catalog  Catalog
	Orders   Orders
	Settings Settings
}

func (d Document) Clone() Document {
	return Document{
		Catalog:  d.Catalog.Clone(),
		Orders:   d.Orders.Clone(),
		Settings: d.Settings,
	}
}
