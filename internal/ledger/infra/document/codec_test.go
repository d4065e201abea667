package document

import (
	"strings"
	"testing"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `{
  "store": {
    "Shoes": [
      {"id": 5, "name": "Louboutins", "price": 300.0, "description": "Red bottom heels", "sizes": ["7", "8"], "colors": ["Red"]}
    ],
    "Dresses": [
      {"id": 1, "name": "Floral flowy linen", "price": 15.0, "description": "Midi", "sizes": ["S(US-4)"], "colors": ["Butter yellow"]},
      {"id": 2, "name": "Satin robe été", "price": 35.5}
    ]
  },
  "orders": {
    "900": {"items": {"2": 1, "1": 3, "77": 2}, "subtotal": 80.5, "shipping": 0, "total": 80.5},
    "12": {"items": {}, "subtotal": 0, "shipping": 0, "total": 0}
  },
  "settings": {"shipping_fee": 5.0, "min_order": 20.0}
}`

func TestDecodeKeepsFileOrder(t *testing.T) {
	doc, err := Decode([]byte(legacyDocument))
	require.NoError(t, err)

	assert.Equal(t, []string{"Shoes", "Dresses"}, doc.Catalog.Names())
	assert.Equal(t, []int64{900, 12}, doc.Orders.Users())

	cart, ok := doc.Orders.Get(900)
	require.True(t, ok)
	assert.Equal(t, []domain.CartLine{{ItemID: 2, Quantity: 1}, {ItemID: 1, Quantity: 3}, {ItemID: 77, Quantity: 2}}, cart.Lines)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("80.5")))

	item, ok := doc.Catalog.Item(2)
	require.True(t, ok)
	assert.Equal(t, "Satin robe été", item.Name)
	assert.Equal(t, []string{}, item.Sizes)
	assert.Equal(t, []string{}, item.Colors)
	assert.Equal(t, "", item.Description)

	assert.True(t, doc.Settings.MinOrder.Equal(decimal.NewFromInt(20)))
}

func TestRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(legacyDocument))
	require.NoError(t, err)

	encoded, err := Encode(doc)
	require.NoError(t, err)

	again, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, doc.Catalog.Names(), again.Catalog.Names())
	assert.Equal(t, doc.Orders.Users(), again.Orders.Users())
	for _, cat := range doc.Catalog.Categories {
		got := again.Catalog.Items(cat.Name)
		require.Len(t, got, len(cat.Items))
		for i, it := range cat.Items {
			assert.Equal(t, it.ID, got[i].ID)
			assert.Equal(t, it.Name, got[i].Name)
			assert.True(t, it.Price.Equal(got[i].Price), "price of %d", it.ID)
			assert.Equal(t, it.Sizes, got[i].Sizes)
			assert.Equal(t, it.Colors, got[i].Colors)
		}
	}
	for _, id := range doc.Orders.Users() {
		want, _ := doc.Orders.Get(id)
		got, _ := again.Orders.Get(id)
		assert.Equal(t, len(want.Lines), len(got.Lines))
		for i := range want.Lines {
			assert.Equal(t, want.Lines[i], got.Lines[i])
		}
		assert.True(t, want.Subtotal.Equal(got.Subtotal))
		assert.True(t, want.Shipping.Equal(got.Shipping))
		assert.True(t, want.Total.Equal(got.Total))
	}
	assert.True(t, doc.Settings.ShippingFee.Equal(again.Settings.ShippingFee))
}

func TestEncodeFormat(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.Orders.Put(7, domain.Cart{
		Lines:    []domain.CartLine{{ItemID: 3, Quantity: 2}},
		Subtotal: decimal.RequireFromString("50"),
		Shipping: decimal.Zero,
		Total:    decimal.RequireFromString("50"),
	})

	out, err := Encode(doc)
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.Index(text, `"store"`) < strings.Index(text, `"orders"`))
	assert.True(t, strings.Index(text, `"orders"`) < strings.Index(text, `"settings"`))
	assert.True(t, strings.Index(text, `"Dresses"`) < strings.Index(text, `"Pants"`))
	assert.Contains(t, text, `"price": 15.00`)
	assert.Contains(t, text, `"shipping_fee": 5.00`)
	assert.Contains(t, text, `"7": {`)
	assert.Contains(t, text, `"3": 2`)
	assert.Contains(t, text, "\n  \"orders\"")
}

func TestEncodeKeepsPrecision(t *testing.T) {
	doc := domain.Document{Settings: domain.Settings{ShippingFee: decimal.RequireFromString("4.995")}}
	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"shipping_fee": 4.995`)
	assert.Contains(t, string(out), `"min_order": 0.00`)
}

func TestDecodeDefaults(t *testing.T) {
	doc, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Catalog.Categories)
	assert.Equal(t, 0, doc.Orders.Len())
	assert.True(t, doc.Settings.ShippingFee.IsZero())
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"store":`},
		{"not an object", `[1,2]`},
		{"store not object", `{"store": []}`},
		{"category not list", `{"store": {"Hats": {}}}`},
		{"missing id", `{"store": {"Hats": [{"name": "cap", "price": 1}]}}`},
		{"fractional id", `{"store": {"Hats": [{"id": 1.5, "price": 1}]}}`},
		{"missing price", `{"store": {"Hats": [{"id": 1}]}}`},
		{"string price", `{"store": {"Hats": [{"id": 1, "price": "1"}]}}`},
		{"negative price", `{"store": {"Hats": [{"id": 1, "price": -1}]}}`},
		{"duplicate id", `{"store": {"Hats": [{"id": 1, "price": 1}], "Caps": [{"id": 1, "price": 2}]}}`},
		{"bad user key", `{"orders": {"bob": {"items": {}}}}`},
		{"bad item key", `{"orders": {"1": {"items": {"x": 1}}}}`},
		{"zero quantity", `{"orders": {"1": {"items": {"2": 0}}}}`},
		{"quantity above limit", `{"orders": {"1": {"items": {"2": 2147483648}}}}`},
		{"repeated cart item", `{"orders": {"1": {"items": {"2": 1, "2": 3}}}}`},
		{"aliased cart item", `{"orders": {"1": {"items": {"02": 1, "2": 3}}}}`},
		{"negative setting", `{"settings": {"shipping_fee": -5, "min_order": 20}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.json))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestQuantityAtLimitRoundTrips(t *testing.T) {
	doc := domain.DefaultDocument()
	cart := domain.EmptyCart()
	cart.Add(1, domain.MaxQuantity)
	cart.Recompute(doc.Catalog, doc.Settings)
	doc.Orders.Put(7, cart)

	out, err := Encode(doc)
	require.NoError(t, err)

	again, err := Decode(out)
	require.NoError(t, err)
	got, ok := again.Orders.Get(7)
	require.True(t, ok)
	assert.Equal(t, []domain.CartLine{{ItemID: 1, Quantity: domain.MaxQuantity}}, got.Lines)
	assert.True(t, cart.Total.Equal(got.Total))
}
