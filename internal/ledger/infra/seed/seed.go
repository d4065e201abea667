// Package seed reads the catalog and settings a fresh ledger starts with.
//
// A seed file looks like:
//
//	settings:
//	  shipping_fee: "5.00"
//	  min_order: "20.00"
//	categories:
//	  - name: Dresses
//	    items:
//	      - id: 1
//	        name: Floral flowy linen
//	        price: "15.00"
//	        sizes: ["S(US-4)", "M(US-6)"]
//	        colors: [Butter yellow]
//
// Seeds only apply when no document has been persisted yet.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dwikikusuma/storefront-bot/internal/ledger/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSeed = errors.New("invalid seed")

type file struct {
	Settings   settings   `yaml:"settings"`
	Categories []category `yaml:"categories"`
}

type settings struct {
	ShippingFee string `yaml:"shipping_fee"`
	MinOrder    string `yaml:"min_order"`
}

type category struct {
	Name  string `yaml:"name"`
	Items []item `yaml:"items"`
}

type item struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	Description string   `yaml:"description"`
	Sizes       []string `yaml:"sizes"`
	Colors      []string `yaml:"colors"`
}

// Load returns the built-in default document when path is empty, otherwise
// the document described by the YAML file at path.
func Load(path string) (domain.Document, error) {
	if path == "" {
		return domain.DefaultDocument(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (domain.Document, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	fee, err := parseAmount("settings.shipping_fee", f.Settings.ShippingFee)
	if err != nil {
		return domain.Document{}, err
	}
	minOrder, err := parseAmount("settings.min_order", f.Settings.MinOrder)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		Catalog:  domain.Catalog{Categories: make([]domain.Category, 0, len(f.Categories))},
		Settings: domain.Settings{ShippingFee: fee, MinOrder: minOrder},
	}

	ids := make(map[int]bool)
	names := make(map[string]bool)
	for _, c := range f.Categories {
		if c.Name == "" {
			return domain.Document{}, fmt.Errorf("%w: category without a name", ErrInvalidSeed)
		}
		if names[c.Name] {
			return domain.Document{}, fmt.Errorf("%w: category %q listed twice", ErrInvalidSeed, c.Name)
		}
		names[c.Name] = true

		cat := domain.Category{Name: c.Name, Items: make([]domain.CatalogItem, 0, len(c.Items))}
		for _, it := range c.Items {
			if it.ID <= 0 {
				return domain.Document{}, fmt.Errorf("%w: item %q needs a positive id", ErrInvalidSeed, it.Name)
			}
			if ids[it.ID] {
				return domain.Document{}, fmt.Errorf("%w: item id %d listed twice", ErrInvalidSeed, it.ID)
			}
			ids[it.ID] = true

			price, err := parseAmount(fmt.Sprintf("item %d price", it.ID), it.Price)
			if err != nil {
				return domain.Document{}, err
			}
			cat.Items = append(cat.Items, domain.CatalogItem{
				ID:          it.ID,
				Name:        it.Name,
				Price:       price,
				Description: it.Description,
				Sizes:       append([]string{}, it.Sizes...),
				Colors:      append([]string{}, it.Colors...),
			})
		}
		doc.Catalog.Categories = append(doc.Catalog.Categories, cat)
	}
	return doc, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidSeed, field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidSeed, field)
	}
	return d, nil
}
