package reconcile

import (
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// StockMinimum is the minimum stock level given to every seeded product.
const StockMinimum = 1

// IndexPrices indexes price records by normalized name. Later records
// replace earlier ones with the same key.
func IndexPrices(prices []models.PriceRecord) map[string]models.PriceRecord {
	idx := make(map[string]models.PriceRecord, len(prices))
	for _, p := range prices {
		idx[NormalizeName(p.Name)] = p
	}
	return idx
}

// SeedFromStock joins each stock row with its price list entry and returns
// the products to create together with the matching stock entry lines.
func SeedFromStock(stock []models.StockRecord, prices []models.PriceRecord, pricing Pricing) ([]models.SeedProduct, []models.StockEntryItem) {
	byName := IndexPrices(prices)

	products := make([]models.SeedProduct, 0, len(stock))
	items := make([]models.StockEntryItem, 0, len(stock))
	for _, s := range stock {
		p, matched := byName[NormalizeName(s.Name)]

		cost := s.CostPrice
		if cost == 0 && matched && p.CostPrice != nil {
			cost = *p.CostPrice
		}

		var sale float64
		switch {
		case matched && p.SalePrice != nil:
			sale = *p.SalePrice
		case cost > 0:
			sale = Round(cost*pricing.Markup, 2)
		}
		margin := Margin(sale, cost)

		products = append(products, models.SeedProduct{
			Name:          s.Name,
			Category:      s.Category,
			CostPrice:     Round(cost, 2),
			SalePrice:     Round(sale, 2),
			MarginPercent: margin,
			StockMinimum:  StockMinimum,
		})
		items = append(items, models.StockEntryItem{
			ProductName:   s.Name,
			Quantity:      s.Quantity,
			CostPrice:     Round(cost, 2),
			MarginPercent: margin,
		})
	}

	return products, items
}

// SeedFromPriceList converts every price list row into a zero-stock product
// whose cost is expressed in foreign currency at the given rate.
func SeedFromPriceList(prices []models.PriceRecord, rate float64, pricing Pricing) []models.PriceListSeed {
	out := make([]models.PriceListSeed, 0, len(prices))
	for _, p := range prices {
		var cost, sale float64
		if p.CostPrice != nil {
			cost = *p.CostPrice
		}
		if p.SalePrice != nil {
			sale = *p.SalePrice
		}
		if cost <= 0 && sale > 0 {
			cost = Round(sale/pricing.Markup, 2)
		}

		var costForeign float64
		if rate > 0 {
			costForeign = Round(cost/rate, 6)
		}

		margin := pricing.DefaultMargin
		if cost > 0 && sale > 0 {
			margin = Margin(sale, cost)
		}

		out = append(out, models.PriceListSeed{
			Name:            p.Name,
			Category:        p.Category,
			CostPriceUSD:    costForeign,
			StockQuantity:   0,
			StockMinimum:    StockMinimum,
			MarginPercent:   margin,
			CashPriceARSRef: sale,
		})
	}
	return out
}
