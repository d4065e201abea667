// Package bolt keeps the ledger document under a single key in a BoltDB file.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/document"
	"go.etcd.io/bbolt"
)

var (
	ledgerBucket = []byte("ledger")
	documentKey  = []byte("document")
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(ledgerBucket); err != nil {
			return fmt.Errorf("create ledger bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	if s == nil || s.db == nil {
		return domain.Document{}, fmt.Errorf("storage is not configured")
	}

	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(ledgerBucket)
		if bucket == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		// Bolt values are only valid for the life of the transaction.
		if v := bucket.Get(documentKey); v != nil {
			payload = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return domain.Document{}, err
	}
	if payload == nil {
		return domain.Document{}, app.ErrNoDocument
	}
	return document.Decode(payload)
}

func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := document.Encode(doc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(ledgerBucket)
		if bucket == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		return bucket.Put(documentKey, payload)
	})
}
