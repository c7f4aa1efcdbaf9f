// Package sheetseed turns the shop's monthly spreadsheet into seed records
// for the retail-management API.
package sheetseed

import (
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

// Purpose identifies what a sheet holds.
type Purpose string

const (
	// PurposePrice is the price list sheet.
	PurposePrice Purpose = "price"
	// PurposeStock is the stock count sheet.
	PurposeStock Purpose = "stock"
	// PurposeExpenses is the fixed expenses sheet.
	PurposeExpenses Purpose = "expenses"
)

// SheetPatterns maps each purpose to the upper-case substrings that
// identify its sheet name.
type SheetPatterns struct {
	Price    []string `mapstructure:"price" validate:"min=1,dive,required"`
	Stock    []string `mapstructure:"stock" validate:"min=1,dive,required"`
	Expenses []string `mapstructure:"expenses" validate:"min=1,dive,required"`
}

// DefaultSheetPatterns returns the sheet names used by the shop's workbook.
func DefaultSheetPatterns() SheetPatterns {
	return SheetPatterns{
		Price:    []string{"LISTA"},
		Stock:    []string{"STOCK"},
		Expenses: []string{"GASTOS"},
	}
}

// For returns the patterns configured for a purpose.
func (p SheetPatterns) For(purpose Purpose) []string {
	switch purpose {
	case PurposePrice:
		return p.Price
	case PurposeStock:
		return p.Stock
	case PurposeExpenses:
		return p.Expenses
	}
	return nil
}

// Options configures an extraction run.
type Options struct {
	// Sheets selects which sheet feeds each extractor.
	Sheets SheetPatterns
	// Pricing holds the markup, margin and exchange-rate heuristics.
	Pricing reconcile.Pricing
	// ExchangeRate overrides the rate detected in the price list when > 0.
	ExchangeRate float64
	// ExampleProducts and ExampleExpenses bound the samples kept in the summary.
	ExampleProducts int
	ExampleExpenses int
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Sheets:          DefaultSheetPatterns(),
		Pricing:         reconcile.DefaultPricing(),
		ExampleProducts: 5,
		ExampleExpenses: 10,
	}
}
