package grpc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"
)

// Amounts travel as decimal strings so no precision is lost in the
// float64-only protobuf Value.

func itemToMap(it domain.CatalogItem) map[string]any {
	return map[string]any{
		"id":          it.ID,
		"name":        it.Name,
		"price":       it.Price.StringFixed(2),
		"description": it.Description,
		"sizes":       stringsToList(it.Sizes),
		"colors":      stringsToList(it.Colors),
	}
}

func cartToMap(v domain.CartView) map[string]any {
	lines := make([]any, 0, len(v.Lines))
	for _, ln := range v.Lines {
		lines = append(lines, map[string]any{"item_id": ln.ItemID, "quantity": ln.Quantity})
	}
	details := make([]any, 0, len(v.Details))
	for _, d := range v.Details {
		details = append(details, map[string]any{
			"item":       itemToMap(d.Item),
			"quantity":   d.Quantity,
			"line_total": d.LineTotal.StringFixed(2),
		})
	}
	unresolved := make([]any, 0, len(v.Unresolved))
	for _, id := range v.Unresolved {
		unresolved = append(unresolved, id)
	}
	return map[string]any{
		"lines":        lines,
		"subtotal":     v.Subtotal.StringFixed(2),
		"shipping":     v.Shipping.StringFixed(2),
		"total":        v.Total.StringFixed(2),
		"item_details": details,
		"unresolved":   unresolved,
	}
}

func shippingToMap(s domain.ShippingInfo) map[string]any {
	return map[string]any{
		"subtotal":                        s.Subtotal.StringFixed(2),
		"shipping_fee":                    s.ShippingFee.StringFixed(2),
		"total":                           s.Total.StringFixed(2),
		"free_shipping_eligible":          s.FreeShippingEligible,
		"amount_needed_for_free_shipping": s.AmountNeededForFreeShipping.StringFixed(2),
		"min_order_for_free_shipping":     s.MinOrderForFreeShipping.StringFixed(2),
	}
}

func stringsToList(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func itemFromStruct(s *structpb.Struct) (domain.CatalogItem, error) {
	f := s.GetFields()
	id, err := intField(f, "id")
	if err != nil {
		return domain.CatalogItem{}, err
	}
	price, err := decimalField(f, "price")
	if err != nil {
		return domain.CatalogItem{}, err
	}
	return domain.CatalogItem{
		ID:          id,
		Name:        f["name"].GetStringValue(),
		Price:       price,
		Description: f["description"].GetStringValue(),
		Sizes:       listToStrings(f["sizes"]),
		Colors:      listToStrings(f["colors"]),
	}, nil
}

func cartFromStruct(s *structpb.Struct) (domain.CartView, error) {
	f := s.GetFields()
	var v domain.CartView
	var err error

	if v.Subtotal, err = decimalField(f, "subtotal"); err != nil {
		return v, err
	}
	if v.Shipping, err = decimalField(f, "shipping"); err != nil {
		return v, err
	}
	if v.Total, err = decimalField(f, "total"); err != nil {
		return v, err
	}

	v.Lines = []domain.CartLine{}
	for _, raw := range f["lines"].GetListValue().GetValues() {
		lf := raw.GetStructValue().GetFields()
		itemID, err := intField(lf, "item_id")
		if err != nil {
			return v, err
		}
		qty, err := intField(lf, "quantity")
		if err != nil {
			return v, err
		}
		v.Lines = append(v.Lines, domain.CartLine{ItemID: itemID, Quantity: qty})
	}

	v.Details = []domain.LineDetail{}
	for _, raw := range f["item_details"].GetListValue().GetValues() {
		df := raw.GetStructValue().GetFields()
		item, err := itemFromStruct(df["item"].GetStructValue())
		if err != nil {
			return v, err
		}
		qty, err := intField(df, "quantity")
		if err != nil {
			return v, err
		}
		lineTotal, err := decimalField(df, "line_total")
		if err != nil {
			return v, err
		}
		v.Details = append(v.Details, domain.LineDetail{Item: item, Quantity: qty, LineTotal: lineTotal})
	}

	v.Unresolved = []int{}
	for _, raw := range f["unresolved"].GetListValue().GetValues() {
		id, err := toInt(raw)
		if err != nil {
			return v, fmt.Errorf("unresolved: %w", err)
		}
		v.Unresolved = append(v.Unresolved, id)
	}
	return v, nil
}

func shippingFromStruct(s *structpb.Struct) (domain.ShippingInfo, error) {
	f := s.GetFields()
	var info domain.ShippingInfo
	for _, d := range []struct {
		key string
		dst *decimal.Decimal
	}{
		{"subtotal", &info.Subtotal},
		{"shipping_fee", &info.ShippingFee},
		{"total", &info.Total},
		{"amount_needed_for_free_shipping", &info.AmountNeededForFreeShipping},
		{"min_order_for_free_shipping", &info.MinOrderForFreeShipping},
	} {
		v, err := decimalField(f, d.key)
		if err != nil {
			return domain.ShippingInfo{}, err
		}
		*d.dst = v
	}
	info.FreeShippingEligible = f["free_shipping_eligible"].GetBoolValue()
	return info, nil
}

func listToStrings(v *structpb.Value) []string {
	out := []string{}
	for _, s := range v.GetListValue().GetValues() {
		out = append(out, s.GetStringValue())
	}
	return out
}

func intField(f map[string]*structpb.Value, key string) (int, error) {
	v, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func toInt(v *structpb.Value) (int, error) {
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		return 0, fmt.Errorf("not a number")
	}
	n := v.GetNumberValue()
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("%v is not an integer", n)
	}
	return int(n), nil
}

func decimalField(f map[string]*structpb.Value, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(f[key].GetStringValue())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// userIDField accepts the chat user id either as a decimal string or as an
// integral number.
func userIDField(f map[string]*structpb.Value) (int64, error) {
	v, ok := f["user_id"]
	if !ok {
		return 0, fmt.Errorf("user_id is required")
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		id, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("user_id %q is not an integer", k.StringValue)
		}
		return id, nil
	case *structpb.Value_NumberValue:
		if k.NumberValue != math.Trunc(k.NumberValue) || math.Abs(k.NumberValue) > 1<<53 {
			return 0, fmt.Errorf("user_id %v is not an integer", k.NumberValue)
		}
		return int64(k.NumberValue), nil
	default:
		return 0, fmt.Errorf("user_id must be a string or number")
	}
}

// quantityField defaults to 1 when the request leaves quantity out.
func quantityField(f map[string]*structpb.Value) (int, error) {
	if _, ok := f["quantity"]; !ok {
		return 1, nil
	}
	return intField(f, "quantity")
}
