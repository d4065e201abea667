package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dwikikusuma/storefront-bot/internal/ledger/app")

// Ledger owns the catalog, every user's cart and the shipping settings. Each
// mutation is persisted as a whole document before the call returns.
type Ledger struct {
	mu     sync.Mutex
	store  DocumentStore
	doc    domain.Document
	log    *slog.Logger
	closed bool
}

// Open loads the persisted document from store. When nothing is persisted,
// defaults becomes the document and is saved immediately.
func Open(ctx context.Context, store DocumentStore, defaults domain.Document, log *slog.Logger) (*Ledger, error) {
	if log == nil {
		log = slog.Default()
	}

	ctx, span := tracer.Start(ctx, "ledger.load", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	l := &Ledger{store: store, log: log}

	doc, err := store.Load(ctx)
	switch {
	case err == nil:
		l.doc = doc
		log.Info("ledger document loaded",
			slog.Int("categories", len(doc.Catalog.Categories)),
			slog.Int("items", doc.Catalog.ItemCount()),
			slog.Int("carts", doc.Orders.Len()),
		)
	case errors.Is(err, ErrNoDocument):
		l.doc = defaults.Clone()
		if err := l.store.Save(ctx, l.doc); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save defaults")
			return nil, fmt.Errorf("%w: save default document: %w", ErrStorageUnavailable, err)
		}
		log.Info("ledger document created",
			slog.Int("categories", len(l.doc.Catalog.Categories)),
			slog.Int("items", l.doc.Catalog.ItemCount()),
		)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "load")
		return nil, fmt.Errorf("%w: load document: %w", ErrStorageUnavailable, err)
	}

	return l, nil
}

func (l *Ledger) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Catalog.Names()
}

// CategoryItems returns the items listed under category; unknown categories
// yield an empty slice.
func (l *Ledger) CategoryItems(category string) []domain.CatalogItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Catalog.Items(category)
}

func (l *Ledger) ItemByID(id int) (domain.CatalogItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.doc.Catalog.Item(id)
	if !ok {
		return domain.CatalogItem{}, false
	}
	return item.Clone(), true
}

func (l *Ledger) Settings() domain.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Settings
}

// AddToCart adds quantity of itemID to the user's cart, creating the cart on
// first use. Item ids are not checked against the catalog.
func (l *Ledger) AddToCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error) {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return domain.CartView{}, ErrInvalidQuantity
	}
	return l.mutate(ctx, userID, true, func(c *domain.Cart) (bool, error) {
		if !c.CanAdd(itemID, quantity) {
			return false, fmt.Errorf("%w: item %d would exceed %d", ErrInvalidQuantity, itemID, domain.MaxQuantity)
		}
		c.Add(itemID, quantity)
		return true, nil
	}, slog.Int("item_id", itemID), slog.Int("quantity", quantity), slog.String("op", "add"))
}

// RemoveFromCart takes quantity of itemID out of the user's cart. Missing
// carts and missing lines are left untouched and nothing is persisted.
func (l *Ledger) RemoveFromCart(ctx context.Context, userID int64, itemID, quantity int) (domain.CartView, error) {
	if quantity <= 0 {
		return domain.CartView{}, ErrInvalidQuantity
	}
	return l.mutate(ctx, userID, false, func(c *domain.Cart) (bool, error) {
		return c.Remove(itemID, quantity), nil
	}, slog.Int("item_id", itemID), slog.Int("quantity", quantity), slog.String("op", "remove"))
}

// ClearCart empties an existing cart and zeroes its totals. Users without a
// cart are not given one.
func (l *Ledger) ClearCart(ctx context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	cart, ok := l.doc.Orders.Get(userID)
	if !ok {
		return nil
	}

	prev := cart.Clone()
	cart.Reset()
	if err := l.persist(ctx); err != nil {
		*cart = prev
		return err
	}
	l.log.Debug("cart cleared", slog.Int64("user_id", userID))
	return nil
}

// Cart returns the user's cart with catalog details. Unknown users get an
// empty view and no cart is created for them.
func (l *Ledger) Cart(userID int64) domain.CartView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked(userID)
}

func (l *Ledger) ShippingInfo(userID int64) domain.ShippingInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.NewShippingInfo(l.viewLocked(userID), l.doc.Settings)
}

// Snapshot returns a deep copy of the current document.
func (l *Ledger) Snapshot() domain.Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Clone()
}

// Close flushes the document one last time and closes the store.
func (l *Ledger) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	flushErr := l.persist(ctx)
	if err := l.store.Close(); err != nil {
		return errors.Join(flushErr, fmt.Errorf("%w: close store: %w", ErrStorageUnavailable, err))
	}
	return flushErr
}

func (l *Ledger) mutate(ctx context.Context, userID int64, create bool, apply func(*domain.Cart) (bool, error), attrs ...any) (domain.CartView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return domain.CartView{}, ErrClosed
	}

	stored, existed := l.doc.Orders.Get(userID)
	if !existed && !create {
		return l.viewLocked(userID), nil
	}

	next := domain.EmptyCart()
	if existed {
		next = stored.Clone()
	}
	changed, err := apply(&next)
	if err != nil {
		return domain.CartView{}, err
	}
	if !changed {
		return l.viewLocked(userID), nil
	}
	next.Recompute(l.doc.Catalog, l.doc.Settings)

	var prev domain.Cart
	if existed {
		prev = *stored
	}
	l.doc.Orders.Put(userID, next)

	if err := l.persist(ctx); err != nil {
		if existed {
			l.doc.Orders.Put(userID, prev)
		} else {
			l.doc.Orders.Delete(userID)
		}
		return domain.CartView{}, err
	}

	l.log.Debug("cart updated", append([]any{slog.Int64("user_id", userID)}, attrs...)...)
	return l.viewLocked(userID), nil
}

func (l *Ledger) viewLocked(userID int64) domain.CartView {
	cart, ok := l.doc.Orders.Get(userID)
	if !ok {
		return domain.NewCartView(domain.EmptyCart(), l.doc.Catalog)
	}
	return domain.NewCartView(*cart, l.doc.Catalog)
}

func (l *Ledger) persist(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ledger.persist",
		trace.WithAttributes(attribute.Int("ledger.carts", l.doc.Orders.Len())),
	)
	defer span.End()

	if err := l.store.Save(ctx, l.doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save")
		l.log.Error("ledger persist failed", slog.Any("err", err))
		return fmt.Errorf("%w: save document: %w", ErrStorageUnavailable, err)
	}
	return nil
}
