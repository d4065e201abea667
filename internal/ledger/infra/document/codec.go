// Package document converts the ledger document to and from its persisted
// JSON form:
//
//	{
//	  "store":    {"<category>": [{"id", "name", "price", "description", "sizes", "colors"}, ...]},
//	  "orders":   {"<user id>": {"items": {"<item id>": qty}, "subtotal", "shipping", "total"}},
//	  "settings": {"shipping_fee", "min_order"}
//	}
//
// Object key order is significant: categories, users and cart lines are
// decoded and re-encoded in file order.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

var ErrMalformed = errors.New("malformed ledger document")

var prettyOptions = &pretty.Options{Width: 80, Indent: "  "}

// Decode parses a persisted document. Missing sections and optional fields
// default to empty or zero values; structurally invalid content fails with
// ErrMalformed.
func Decode(data []byte) (domain.Document, error) {
	if !gjson.ValidBytes(data) {
		return domain.Document{}, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return domain.Document{}, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}

	catalog, err := decodeCatalog(root.Get("store"))
	if err != nil {
		return domain.Document{}, err
	}
	orders, err := decodeOrders(root.Get("orders"))
	if err != nil {
		return domain.Document{}, err
	}
	settings, err := decodeSettings(root.Get("settings"))
	if err != nil {
		return domain.Document{}, err
	}

	return domain.Document{Catalog: catalog, Orders: orders, Settings: settings}, nil
}

func decodeCatalog(store gjson.Result) (domain.Catalog, error) {
	catalog := domain.Catalog{Categories: []domain.Category{}}
	if !store.Exists() {
		return catalog, nil
	}
	if !store.IsObject() {
		return catalog, fmt.Errorf("%w: store is not an object", ErrMalformed)
	}

	seen := make(map[int]string)
	var err error
	store.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !value.IsArray() {
			err = fmt.Errorf("%w: category %q is not a list", ErrMalformed, name)
			return false
		}
		cat := domain.Category{Name: name, Items: []domain.CatalogItem{}}
		for i, raw := range value.Array() {
			var item domain.CatalogItem
			item, err = decodeItem(raw)
			if err != nil {
				err = fmt.Errorf("category %q item %d: %w", name, i, err)
				return false
			}
			if other, dup := seen[item.ID]; dup {
				err = fmt.Errorf("%w: item id %d repeated in %q and %q", ErrMalformed, item.ID, other, name)
				return false
			}
			seen[item.ID] = name
			cat.Items = append(cat.Items, item)
		}
		catalog.Categories = append(catalog.Categories, cat)
		return true
	})
	return catalog, err
}

func decodeItem(raw gjson.Result) (domain.CatalogItem, error) {
	if !raw.IsObject() {
		return domain.CatalogItem{}, fmt.Errorf("%w: item is not an object", ErrMalformed)
	}
	id, ok := positiveInt(raw.Get("id"))
	if !ok {
		return domain.CatalogItem{}, fmt.Errorf("%w: id must be a positive integer", ErrMalformed)
	}
	price, err := amount(raw.Get("price"), true)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("item %d price: %w", id, err)
	}
	return domain.CatalogItem{
		ID:          id,
		Name:        raw.Get("name").String(),
		Price:       price,
		Description: raw.Get("description").String(),
		Sizes:       stringList(raw.Get("sizes")),
		Colors:      stringList(raw.Get("colors")),
	}, nil
}

func decodeOrders(orders gjson.Result) (domain.Orders, error) {
	var out domain.Orders
	if !orders.Exists() {
		return out, nil
	}
	if !orders.IsObject() {
		return out, fmt.Errorf("%w: orders is not an object", ErrMalformed)
	}

	var err error
	orders.ForEach(func(key, value gjson.Result) bool {
		userID, perr := strconv.ParseInt(key.String(), 10, 64)
		if perr != nil {
			err = fmt.Errorf("%w: user key %q is not an integer", ErrMalformed, key.String())
			return false
		}
		var cart domain.Cart
		cart, err = decodeCart(value)
		if err != nil {
			err = fmt.Errorf("cart of user %d: %w", userID, err)
			return false
		}
		out.Put(userID, cart)
		return true
	})
	return out, err
}

func decodeCart(raw gjson.Result) (domain.Cart, error) {
	if !raw.IsObject() {
		return domain.Cart{}, fmt.Errorf("%w: cart is not an object", ErrMalformed)
	}

	cart := domain.EmptyCart()
	items := raw.Get("items")
	if items.Exists() && !items.IsObject() {
		return domain.Cart{}, fmt.Errorf("%w: items is not an object", ErrMalformed)
	}

	seen := make(map[int]bool)
	var err error
	items.ForEach(func(key, value gjson.Result) bool {
		itemID, perr := strconv.Atoi(key.String())
		if perr != nil {
			err = fmt.Errorf("%w: item key %q is not an integer", ErrMalformed, key.String())
			return false
		}
		if seen[itemID] {
			err = fmt.Errorf("%w: item %d listed twice in cart", ErrMalformed, itemID)
			return false
		}
		seen[itemID] = true
		qty, ok := positiveInt(value)
		if !ok {
			err = fmt.Errorf("%w: quantity of item %d must be a positive integer", ErrMalformed, itemID)
			return false
		}
		cart.Lines = append(cart.Lines, domain.CartLine{ItemID: itemID, Quantity: qty})
		return true
	})
	if err != nil {
		return domain.Cart{}, err
	}

	for _, f := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"subtotal", &cart.Subtotal},
		{"shipping", &cart.Shipping},
		{"total", &cart.Total},
	} {
		v, err := amount(raw.Get(f.name), false)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	return cart, nil
}

func decodeSettings(raw gjson.Result) (domain.Settings, error) {
	if raw.Exists() && !raw.IsObject() {
		return domain.Settings{}, fmt.Errorf("%w: settings is not an object", ErrMalformed)
	}
	fee, err := amount(raw.Get("shipping_fee"), false)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("shipping_fee: %w", err)
	}
	minOrder, err := amount(raw.Get("min_order"), false)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("min_order: %w", err)
	}
	return domain.Settings{ShippingFee: fee, MinOrder: minOrder}, nil
}

// amount parses a non-negative JSON number exactly as written. A missing
// value is zero unless required is set.
func amount(v gjson.Result, required bool) (decimal.Decimal, error) {
	if !v.Exists() {
		if required {
			return decimal.Zero, fmt.Errorf("%w: missing amount", ErrMalformed)
		}
		return decimal.Zero, nil
	}
	if v.Type != gjson.Number {
		return decimal.Zero, fmt.Errorf("%w: amount %s is not a number", ErrMalformed, v.Raw)
	}
	d, err := decimal.NewFromString(v.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %s: %v", ErrMalformed, v.Raw, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is negative", ErrMalformed, v.Raw)
	}
	return d, nil
}

func positiveInt(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) || v.Num <= 0 || v.Num > domain.MaxQuantity {
		return 0, false
	}
	return int(v.Int()), true
}

func stringList(v gjson.Result) []string {
	out := []string{}
	if !v.IsArray() {
		return out
	}
	for _, s := range v.Array() {
		out = append(out, s.String())
	}
	return out
}

// Encode renders doc in the persisted format with two-space indentation.
func Encode(doc domain.Document) ([]byte, error) {
	top := object{
		{"store", encodeCatalog(doc.Catalog)},
		{"orders", encodeOrders(doc.Orders)},
		{"settings", wireSettings{
			ShippingFee: number(doc.Settings.ShippingFee),
			MinOrder:    number(doc.Settings.MinOrder),
		}},
	}
	compact, err := marshal(top)
	if err != nil {
		return nil, fmt.Errorf("encode ledger document: %w", err)
	}
	return pretty.PrettyOptions(compact, prettyOptions), nil
}

type wireItem struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       number   `json:"price"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

type wireCart struct {
	Items    object `json:"items"`
	Subtotal number `json:"subtotal"`
	Shipping number `json:"shipping"`
	Total    number `json:"total"`
}

type wireSettings struct {
	ShippingFee number `json:"shipping_fee"`
	MinOrder    number `json:"min_order"`
}

func encodeCatalog(c domain.Catalog) object {
	out := make(object, 0, len(c.Categories))
	for _, cat := range c.Categories {
		items := make([]wireItem, 0, len(cat.Items))
		for _, it := range cat.Items {
			items = append(items, wireItem{
				ID:          it.ID,
				Name:        it.Name,
				Price:       number(it.Price),
				Description: it.Description,
				Sizes:       nonNil(it.Sizes),
				Colors:      nonNil(it.Colors),
			})
		}
		out = append(out, field{cat.Name, items})
	}
	return out
}

func encodeOrders(o domain.Orders) object {
	users := o.Users()
	out := make(object, 0, len(users))
	for _, id := range users {
		cart, _ := o.Get(id)
		lines := make(object, 0, len(cart.Lines))
		for _, ln := range cart.Lines {
			lines = append(lines, field{strconv.Itoa(ln.ItemID), ln.Quantity})
		}
		out = append(out, field{strconv.FormatInt(id, 10), wireCart{
			Items:    lines,
			Subtotal: number(cart.Subtotal),
			Shipping: number(cart.Shipping),
			Total:    number(cart.Total),
		}})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type field struct {
	key   string
	value any
}

// object is a JSON object that keeps its keys in slice order.
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", f.key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// number encodes a decimal as a bare JSON number with at least two
// fractional digits.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	d := decimal.Decimal(n)
	places := max(int32(2), -d.Exponent())
	return []byte(d.StringFixed(places)), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
