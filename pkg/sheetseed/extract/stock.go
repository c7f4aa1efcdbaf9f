package extract

import (
	"strings"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// Stock sheet layout (1-based columns).
const (
	stockColCategory = 1
	stockColName     = 2
	stockColQty      = 3
	stockColCost     = 4
)

var stockHeaderLabels = []string{"PRODUCTO", "STOCK"}

// ExtractStock reads the stock sheet. Header rows are recognised by label,
// not position. Rows without a positive quantity are dropped.
func ExtractStock(rows [][]string) []models.StockRecord {
	out := []models.StockRecord{}
	for _, r := range rows {
		if len(r) < stockColCost {
			continue
		}
		name := cell(r, stockColName)
		if name == "" || isLabel(name, stockHeaderLabels) {
			continue
		}

		qty := number(r, stockColQty)
		if qty == nil || *qty <= 0 {
			continue
		}
		cost := 0.0
		if c := number(r, stockColCost); c != nil {
			cost = *c
		}

		out = append(out, models.StockRecord{
			Category:  orDefaultCategory(cell(r, stockColCategory)),
			Name:      name,
			Quantity:  *qty,
			CostPrice: cost,
		})
	}
	return out
}

// isLabel reports whether s equals one of labels, ignoring case.
func isLabel(s string, labels []string) bool {
	for _, l := range labels {
		if strings.EqualFold(s, l) {
			return true
		}
	}
	return false
}
