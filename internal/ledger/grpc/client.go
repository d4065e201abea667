package grpc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls storefront.v1.LedgerService and decodes the replies back into
// domain values.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	out, err := c.invoke(ctx, "ListCategories", map[string]any{})
	if err != nil {
		return nil, err
	}
	return listToStrings(out.GetFields()["categories"]), nil
}

func (c *Client) CategoryItems(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	out, err := c.invoke(ctx, "ListCategoryItems", map[string]any{"category": category})
	if err != nil {
		return nil, err
	}
	values := out.GetFields()["items"].GetListValue().GetValues()
	items := make([]domain.CatalogItem, 0, len(values))
	for _, v := range values {
		it, err := itemFromStruct(v.GetStructValue())
		if err != nil {
			return nil, decodeErr(err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (c *Client) Item(ctx context.Context, id int) (domain.CatalogItem, error) {
	out, err := c.invoke(ctx, "GetItem", map[string]any{"item_id": id})
	if err != nil {
		return domain.CatalogItem{}, err
	}
	it, err := itemFromStruct(out)
	if err != nil {
		return domain.CatalogItem{}, decodeErr(err)
	}
	return it, nil
}

func (c *Client) AddToCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error) {
	return c.cartCall(ctx, "AddToCart", map[string]any{
		"user_id":  strconv.FormatInt(userID, 10),
		"item_id":  itemID,
		"quantity": quantity,
	})
}

func (c *Client) RemoveFromCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error) {
	return c.cartCall(ctx, "RemoveFromCart", map[string]any{
		"user_id":  strconv.FormatInt(userID, 10),
		"item_id":  itemID,
		"quantity": quantity,
	})
}

func (c *Client) Cart(ctx context.Context, userID int64) (domain.CartView, error) {
	return c.cartCall(ctx, "GetCart", map[string]any{"user_id": strconv.FormatInt(userID, 10)})
}

func (c *Client) ClearCart(ctx context.Context, userID int64) (domain.CartView, error) {
	return c.cartCall(ctx, "ClearCart", map[string]any{"user_id": strconv.FormatInt(userID, 10)})
}

func (c *Client) ShippingInfo(ctx context.Context, userID int64) (domain.ShippingInfo, error) {
	out, err := c.invoke(ctx, "GetShippingInfo", map[string]any{"user_id": strconv.FormatInt(userID, 10)})
	if err != nil {
		return domain.ShippingInfo{}, err
	}
	info, err := shippingFromStruct(out)
	if err != nil {
		return domain.ShippingInfo{}, decodeErr(err)
	}
	return info, nil
}

func (c *Client) cartCall(ctx context.Context, method string, req map[string]any) (domain.CartView, error) {
	out, err := c.invoke(ctx, method, req)
	if err != nil {
		return domain.CartView{}, err
	}
	view, err := cartFromStruct(out)
	if err != nil {
		return domain.CartView{}, decodeErr(err)
	}
	return view, nil
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeErr(err error) error {
	return status.Errorf(codes.Internal, "decode ledger response: %v", err)
}
