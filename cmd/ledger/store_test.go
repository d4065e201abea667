package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/dwikikusuma/storefront-bot/pkg/config"
	"github.com/dwikikusuma/storefront-bot/pkg/logger"
)

func TestOpenStoreBackends(t *testing.T) {
	for _, kind := range []string{config.StorageJSON, config.StorageSQLite, config.StorageBolt} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "ledger."+kind)

			store, err := openStore(kind, path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			ledger, err := app.Open(ctx, store, domain.DefaultDocument(), logger.Discard())
			if err != nil {
				t.Fatalf("ledger: %v", err)
			}
			if _, err := ledger.AddToCart(ctx, 11, 6, 1); err != nil {
				t.Fatalf("add: %v", err)
			}
			if err := ledger.Close(ctx); err != nil {
				t.Fatalf("close: %v", err)
			}

			store, err = openStore(kind, path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			ledger, err = app.Open(ctx, store, domain.Document{}, logger.Discard())
			if err != nil {
				t.Fatalf("ledger reopen: %v", err)
			}
			defer ledger.Close(ctx)

			if got := ledger.Cart(11).Total.StringFixed(2); got != "120.00" {
				t.Fatalf("total after reopen = %s, want 120.00", got)
			}
		})
	}
}

func TestOpenStoreUnknownKind(t *testing.T) {
	if _, err := openStore("redis", "x"); err == nil {
		t.Fatal("expected error")
	}
}
