package domain

import "github.com/shopspring/decimal"

// DefaultDocument is written on first start when no persisted document and
// no seed file exist.
func DefaultDocument() Document {
	dressSizes := []string{"S(US-4)", "M(US-6)", "L(US-08/10)"}
	pantSizes := []string{"28", "30", "32", "34"}
	shoeSizes := []string{"7", "8", "9", "10"}

	return Document{
		Catalog: Catalog{Categories: []Category{
			{Name: "Dresses", Items: []CatalogItem{
				{
					ID:          1,
					Name:        "Floral flowy linen",
					Price:       decimal.RequireFromString("15.00"),
					Description: "Lightweight summery buttery texture casual midi dress print lowcut sweet temperament dress",
					Sizes:       dressSizes,
					Colors:      []string{"Butter yellow", "Sage green"},
				},
				{
					ID:          2,
					Name:        "Silky satin",
					Price:       decimal.RequireFromString("35.00"),
					Description: "Women summer satin V neck sling dress elegant sleeveless loose maxi robes",
					Sizes:       append([]string(nil), dressSizes...),
					Colors:      []string{"Butter yellow", "Sage green", "Coral pink", "Misty brown"},
				},
			}},
			{Name: "Pants", Items: []CatalogItem{
				{
					ID:          3,
					Name:        "Classic linen wash",
					Price:       decimal.RequireFromString("25.00"),
					Description: "Slim fit, stretch denim.",
					Sizes:       pantSizes,
					Colors:      []string{"Blue", "Black", "White"},
				},
				{
					ID:          4,
					Name:        "Baggy Jeans",
					Price:       decimal.RequireFromString("25.00"),
					Description: "Slim fit, stretch denim.",
					Sizes:       append([]string(nil), pantSizes...),
					Colors:      []string{"Blue", "Black", "Sage"},
				},
			}},
			{Name: "Shoes", Items: []CatalogItem{
				{
					ID:          5,
					Name:        "Louboutins",
					Price:       decimal.RequireFromString("300.00"),
					Description: "Red bottom heels",
					Sizes:       shoeSizes,
					Colors:      []string{"White", "Black", "Red"},
				},
				{
					ID:          6,
					Name:        "YSL",
					Price:       decimal.RequireFromString("120.00"),
					Description: "YSL imprinted heels",
					Sizes:       append([]string(nil), shoeSizes...),
					Colors:      []string{"White", "Black", "Gold"},
				},
			}},
		}},
		Settings: Settings{
			ShippingFee: decimal.RequireFromString("5.00"),
			MinOrder:    decimal.RequireFromString("20.00"),
		},
	}
}
