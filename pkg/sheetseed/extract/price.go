package extract

import (
	"strings"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// Price list layout (1-based columns).
const (
	priceColCategory     = 1
	priceColName         = 2
	priceColSale         = 3
	priceColCostFallback = 8
	priceColCost         = 10
	priceColRate         = 15
)

// DefaultRateThreshold is the lowest value accepted as an exchange rate
// when scanning the price list.
const DefaultRateThreshold = 100.0

// PriceOptions configures price list extraction.
type PriceOptions struct {
	// RateThreshold is the exclusive lower bound for a detected exchange rate.
	RateThreshold float64
}

// DefaultPriceOptions returns the default price extraction options.
func DefaultPriceOptions() PriceOptions {
	return PriceOptions{RateThreshold: DefaultRateThreshold}
}

// ExtractPrices reads the price list sheet. The first row is a header.
// It also returns the first exchange rate found in the rate column of a
// retained row, or nil when none exceeds the threshold.
func ExtractPrices(rows [][]string, opts PriceOptions) ([]models.PriceRecord, *float64) {
	out := []models.PriceRecord{}
	var detected *float64
	if len(rows) == 0 {
		return out, detected
	}

	for _, r := range rows[1:] {
		if len(r) < priceColName {
			continue
		}
		name := cell(r, priceColName)
		if name == "" || strings.EqualFold(name, "PRODUCTO") {
			continue
		}

		sale := number(r, priceColSale)
		cost := number(r, priceColCost)
		if cost == nil || *cost == 0 {
			cost = number(r, priceColCostFallback)
		}
		if sale == nil && cost == nil {
			continue
		}

		if detected == nil && len(r) >= priceColRate {
			if rate := number(r, priceColRate); rate != nil && *rate > opts.RateThreshold {
				detected = rate
			}
		}

		out = append(out, models.PriceRecord{
			Category:  orDefaultCategory(cell(r, priceColCategory)),
			Name:      name,
			SalePrice: sale,
			CostPrice: cost,
		})
	}

	return out, detected
}
