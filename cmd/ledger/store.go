package main

import (
	"fmt"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/bolt"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/jsonfile"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/sqlite"
	"github.com/dwikikusuma/storefront-bot/pkg/config"
)

func openStore(kind, path string) (app.DocumentStore, error) {
	switch kind {
	case config.StorageJSON:
		return jsonfile.Open(path)
	case config.StorageSQLite:
		return sqlite.Open(path)
	case config.StorageBolt:
		return bolt.Open(path)
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}
