package domain

import "github.com/shopspring/decimal"

type CatalogItem struct {
	ID          int
	Name        string
	Price       decimal.Decimal
	Description string
	Sizes       []string
	Colors      []string
}

type Category struct {
	Name  string
	Items []CatalogItem
}

// Catalog keeps categories and their items in insertion order. Item lookups
// scan categories first, then items, and the first match wins.
type Catalog struct {
	Categories []Category
}

func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Items returns the items of category, or an empty slice when the category
// does not exist.
func (c Catalog) Items(category string) []CatalogItem {
	for _, cat := range c.Categories {
		if cat.Name == category {
			out := make([]CatalogItem, 0, len(cat.Items))
			for _, it := range cat.Items {
				out = append(out, it.Clone())
			}
			return out
		}
	}
	return []CatalogItem{}
}

func (c Catalog) Item(id int) (CatalogItem, bool) {
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return CatalogItem{}, false
}

func (c Catalog) ItemCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Items)
	}
	return n
}

func (c Catalog) Clone() Catalog {
	out := Catalog{Categories: make([]Category, 0, len(c.Categories))}
	for _, cat := range c.Categories {
		items := make([]CatalogItem, 0, len(cat.Items))
		for _, it := range cat.Items {
			items = append(items, it.Clone())
		}
		out.Categories = append(out.Categories, Category{Name: cat.Name, Items: items})
	}
	return out
}

func (it CatalogItem) Clone() CatalogItem {
	it.Sizes = append([]string(nil), it.Sizes...)
	it.Colors = append([]string(nil), it.Colors...)
	return it
}
