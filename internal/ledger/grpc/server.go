package grpc

import (
	"context"
	"errors"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "storefront.v1.LedgerService"

// LedgerServiceServer is the server API of storefront.v1.LedgerService.
// Requests and responses are google.protobuf.Struct messages.
type LedgerServiceServer interface {
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategoryItems(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddToCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFromCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetShippingInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListCategories", LedgerServiceServer.ListCategories),
		unary("ListCategoryItems", LedgerServiceServer.ListCategoryItems),
		unary("GetItem", LedgerServiceServer.GetItem),
		unary("AddToCart", LedgerServiceServer.AddToCart),
		unary("RemoveFromCart", LedgerServiceServer.RemoveFromCart),
		unary("GetCart", LedgerServiceServer.GetCart),
		unary("ClearCart", LedgerServiceServer.ClearCart),
		unary("GetShippingInfo", LedgerServiceServer.GetShippingInfo),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/ledger.proto",
}

type unaryMethod func(LedgerServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LedgerServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type Server struct {
	ledger *app.Ledger
}

func NewServer(ledger *app.Ledger) *Server {
	return &Server{ledger: ledger}
}

func (s *Server) ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return respond(map[string]any{"categories": stringsToList(s.ledger.Categories())})
}

func (s *Server) ListCategoryItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	category := req.GetFields()["category"].GetStringValue()
	if category == "" {
		return nil, status.Error(codes.InvalidArgument, "category is required")
	}

	items := s.ledger.CategoryItems(category)
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, itemToMap(it))
	}
	return respond(map[string]any{"items": out})
}

func (s *Server) GetItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := intField(req.GetFields(), "item_id")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	item, ok := s.ledger.ItemByID(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "item %d not found", id)
	}
	return respond(itemToMap(item))
}

func (s *Server) AddToCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, itemID, qty, err := cartLineRequest(req)
	if err != nil {
		return nil, err
	}
	view, err := s.ledger.AddToCart(ctx, userID, itemID, qty)
	if err != nil {
		return nil, mapErr(err)
	}
	return respond(cartToMap(view))
}

func (s *Server) RemoveFromCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, itemID, qty, err := cartLineRequest(req)
	if err != nil {
		return nil, err
	}
	view, err := s.ledger.RemoveFromCart(ctx, userID, itemID, qty)
	if err != nil {
		return nil, mapErr(err)
	}
	return respond(cartToMap(view))
}

func (s *Server) GetCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDField(req.GetFields())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return respond(cartToMap(s.ledger.Cart(userID)))
}

func (s *Server) ClearCart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDField(req.GetFields())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.ledger.ClearCart(ctx, userID); err != nil {
		return nil, mapErr(err)
	}
	return respond(cartToMap(s.ledger.Cart(userID)))
}

func (s *Server) GetShippingInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDField(req.GetFields())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return respond(shippingToMap(s.ledger.ShippingInfo(userID)))
}

func cartLineRequest(req *structpb.Struct) (userID int64, itemID, qty int, err error) {
	f := req.GetFields()
	if userID, err = userIDField(f); err != nil {
		return 0, 0, 0, status.Error(codes.InvalidArgument, err.Error())
	}
	if itemID, err = intField(f, "item_id"); err != nil {
		return 0, 0, 0, status.Error(codes.InvalidArgument, err.Error())
	}
	if qty, err = quantityField(f); err != nil {
		return 0, 0, 0, status.Error(codes.InvalidArgument, err.Error())
	}
	return userID, itemID, qty, nil
}

func respond(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidQuantity) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrStorageUnavailable) || errors.Is(err, app.ErrClosed) {
		return status.Error(codes.Unavailable, err.Error())
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
