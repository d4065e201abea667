package app

import (
	"context"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
)

// DocumentStore loads and saves the whole ledger document. Load returns
// ErrNoDocument when nothing has been persisted yet.
type DocumentStore interface {
	Load(ctx context.Context) (domain.Document, error)
	Save(ctx context.Context, doc domain.Document) error
	Close() error
}
