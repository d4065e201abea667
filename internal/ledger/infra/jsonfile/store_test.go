package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/app"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/dwikikusuma/storefront-bot/internal/ledger/infra/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "data.json"))
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	require.ErrorIs(t, err, app.ErrNoDocument)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database", "data.json")
	s, err := Open(path)
	require.NoError(t, err)

	doc := domain.DefaultDocument()
	cart := domain.EmptyCart()
	cart.Add(1, 2)
	cart.Recompute(doc.Catalog, doc.Settings)
	doc.Orders.Put(7, cart)

	require.NoError(t, s.Save(context.Background(), doc))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc.Catalog.Names(), got.Catalog.Names())
	gotCart, ok := got.Orders.Get(7)
	require.True(t, ok)
	assert.Equal(t, cart.Lines, gotCart.Lines)
	assert.True(t, cart.Total.Equal(gotCart.Total))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLeftoverTempFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), domain.DefaultDocument()))
	// A write interrupted before the rename leaves only a temp file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".data.json.123.tmp"), []byte(`{"store":`), 0o644))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, got.Catalog.ItemCount())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	require.ErrorIs(t, err, document.ErrMalformed)
}

func TestCanceledContext(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Save(ctx, domain.DefaultDocument()), context.Canceled)
}
