package app_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/document"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/jsonfile"
	"github.com/dwikikusuma/storefront-bot/pkg/logger"
)

func reopen(t *testing.T, path string) *app.Ledger {
	t.Helper()
	store, err := jsonfile.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ledger, err := app.Open(context.Background(), store, domain.Document{}, logger.Discard())
	if err != nil {
		t.Fatalf("reopen ledger: %v", err)
	}
	return ledger
}

func TestLedger_QuantityLimitSurvivesReload(t *testing.T) {
	ledger, path := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.AddToCart(ctx, 7, 1, domain.MaxQuantity); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := ledger.AddToCart(ctx, 7, 1, domain.MaxQuantity); !errors.Is(err, app.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := ledger.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	again := reopen(t, path)
	defer again.Close(ctx)

	v := again.Cart(7)
	if len(v.Lines) != 1 || v.Lines[0].Quantity != domain.MaxQuantity {
		t.Fatalf("unexpected lines after reload: %+v", v.Lines)
	}
}

func TestLedger_ReloadReproducesDocument(t *testing.T) {
	ledger, path := newTestLedger(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	quantities := []int{1, 2, 5, domain.MaxQuantity / 2, domain.MaxQuantity}
	for i := 0; i < 300; i++ {
		user := int64(rng.Intn(5) - 2)
		item := rng.Intn(8) + 1
		qty := quantities[rng.Intn(len(quantities))]

		var err error
		switch rng.Intn(4) {
		case 0, 1:
			_, err = ledger.AddToCart(ctx, user, item, qty)
		case 2:
			_, err = ledger.RemoveFromCart(ctx, user, item, qty)
		default:
			err = ledger.ClearCart(ctx, user)
		}
		if err != nil && !errors.Is(err, app.ErrInvalidQuantity) {
			t.Fatalf("op %d: %v", i, err)
		}
	}

	want, err := document.Encode(ledger.Snapshot())
	if err != nil {
		t.Fatalf("encode before reload: %v", err)
	}
	if err := ledger.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	again := reopen(t, path)
	defer again.Close(ctx)

	got, err := document.Encode(again.Snapshot())
	if err != nil {
		t.Fatalf("encode after reload: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("document changed across reload:\nbefore:\n%s\nafter:\n%s", want, got)
	}
}
