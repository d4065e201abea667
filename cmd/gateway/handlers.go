package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/present"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ledgerClient is the subset of the ledger gRPC client the gateway calls.
type ledgerClient interface {
	Categories(ctx context.Context) ([]string, error)
	CategoryItems(ctx context.Context, category string) ([]domain.CatalogItem, error)
	Item(ctx context.Context, id int) (domain.CatalogItem, error)
	AddToCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error)
	RemoveFromCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error)
	Cart(ctx context.Context, userID int64) (domain.CartView, error)
	ClearCart(ctx context.Context, userID int64) (domain.CartView, error)
	ShippingInfo(ctx context.Context, userID int64) (domain.ShippingInfo, error)
}

type handlers struct {
	ledger    ledgerClient
	health    grpc_health_v1.HealthClient
	formatter *present.Formatter
	service   string
	timeout   time.Duration
}

func (h *handlers) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("GET /readyz", h.readyz)

	mux.HandleFunc("GET /v1/categories", h.listCategories)
	mux.HandleFunc("GET /v1/categories/{category}/items", h.listCategoryItems)
	mux.HandleFunc("GET /v1/items/{id}", h.getItem)

	mux.HandleFunc("GET /v1/users/{user}/cart", h.getCart)
	mux.HandleFunc("GET /v1/users/{user}/cart/summary", h.getCartSummary)
	mux.HandleFunc("DELETE /v1/users/{user}/cart", h.clearCart)
	mux.HandleFunc("POST /v1/users/{user}/cart/items", h.addItem)
	mux.HandleFunc("DELETE /v1/users/{user}/cart/items/{item}", h.removeItem)
	mux.HandleFunc("GET /v1/users/{user}/shipping", h.getShipping)
	return mux
}

func (h *handlers) callCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	resp, err := h.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: h.service})
	if err != nil || resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	cats, err := h.ledger.Categories(ctx)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *handlers) listCategoryItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callCtx(r)
	defer cancel()

	items, err := h.ledger.CategoryItems(ctx, r.PathValue("category"))
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	out := make([]itemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toItemDTO(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *handlers) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "item id must be an integer")
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	it, err := h.ledger.Item(ctx, id)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(it))
}

func (h *handlers) getCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	v, err := h.ledger.Cart(ctx, userID)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(v))
}

func (h *handlers) getCartSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	v, err := h.ledger.Cart(ctx, userID)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.formatter.CartText(v)))
}

func (h *handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	v, err := h.ledger.ClearCart(ctx, userID)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(v))
}

type addItemRequest struct {
	ItemID   int  `json:"item_id"`
	Quantity *int `json:"quantity"`
}

func (h *handlers) addItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request body")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	v, err := h.ledger.AddToCart(ctx, userID, req.ItemID, qty)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(v))
}

func (h *handlers) removeItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(r.PathValue("item"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "item id must be an integer")
		return
	}
	qty := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		if qty, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "quantity must be an integer")
			return
		}
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	v, err := h.ledger.RemoveFromCart(ctx, userID, itemID, qty)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(v))
}

func (h *handlers) getShipping(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.callCtx(r)
	defer cancel()

	info, err := h.ledger.ShippingInfo(ctx, userID)
	if err != nil {
		writeGRPCError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shippingDTO{
		Subtotal:                    money(info.Subtotal),
		ShippingFee:                 money(info.ShippingFee),
		Total:                       money(info.Total),
		FreeShippingEligible:        info.FreeShippingEligible,
		AmountNeededForFreeShipping: money(info.AmountNeededForFreeShipping),
		MinOrderForFreeShipping:     money(info.MinOrderForFreeShipping),
		Text:                        h.formatter.ShippingText(info),
	})
}

func pathUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("user"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "user id must be an integer")
		return 0, false
	}
	return id, true
}

type itemDTO struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

type lineDTO struct {
	ItemID   int `json:"item_id"`
	Quantity int `json:"quantity"`
}

type lineDetailDTO struct {
	Item      itemDTO `json:"item"`
	Quantity  int     `json:"quantity"`
	LineTotal string  `json:"line_total"`
}

type cartDTO struct {
	Lines      []lineDTO       `json:"lines"`
	Subtotal   string          `json:"subtotal"`
	Shipping   string          `json:"shipping"`
	Total      string          `json:"total"`
	Items      []lineDetailDTO `json:"items"`
	Unresolved []int           `json:"unresolved"`
}

type shippingDTO struct {
	Subtotal                    string `json:"subtotal"`
	ShippingFee                 string `json:"shipping_fee"`
	Total                       string `json:"total"`
	FreeShippingEligible        bool   `json:"free_shipping_eligible"`
	AmountNeededForFreeShipping string `json:"amount_needed_for_free_shipping"`
	MinOrderForFreeShipping     string `json:"min_order_for_free_shipping"`
	Text                        string `json:"text"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toItemDTO(it domain.CatalogItem) itemDTO {
	return itemDTO{
		ID:          it.ID,
		Name:        it.Name,
		Price:       money(it.Price),
		Description: it.Description,
		Sizes:       append([]string{}, it.Sizes...),
		Colors:      append([]string{}, it.Colors...),
	}
}

func toCartDTO(v domain.CartView) cartDTO {
	out := cartDTO{
		Lines:      make([]lineDTO, 0, len(v.Lines)),
		Subtotal:   money(v.Subtotal),
		Shipping:   money(v.Shipping),
		Total:      money(v.Total),
		Items:      make([]lineDetailDTO, 0, len(v.Details)),
		Unresolved: append([]int{}, v.Unresolved...),
	}
	for _, ln := range v.Lines {
		out.Lines = append(out.Lines, lineDTO{ItemID: ln.ItemID, Quantity: ln.Quantity})
	}
	for _, d := range v.Details {
		out.Items = append(out.Items, lineDetailDTO{
			Item:      toItemDTO(d.Item),
			Quantity:  d.Quantity,
			LineTotal: money(d.LineTotal),
		})
	}
	return out
}
