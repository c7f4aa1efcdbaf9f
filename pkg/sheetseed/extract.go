package sheetseed

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/extract"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/parser"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

// Extract loads the workbook at path and produces every record collection
// plus a run summary. Sheets that match no pattern yield empty collections.
func Extract(path string, opts Options) (*models.Result, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExtractionError(path, "load", fmt.Errorf("%w: %s", ErrFileNotFound, path))
	}

	wb, err := parser.LoadWorkbook(path)
	if err != nil {
		return nil, NewExtractionError(path, "load", err)
	}

	return ExtractWorkbook(wb, opts), nil
}

// ExtractWorkbook runs the extractors and the reconciler over a loaded workbook.
func ExtractWorkbook(wb *models.Workbook, opts Options) *models.Result {
	priceSheet, priceOK := DetectSheet(wb, opts.Sheets.For(PurposePrice))
	stockSheet, stockOK := DetectSheet(wb, opts.Sheets.For(PurposeStock))
	expenseSheet, expenseOK := DetectSheet(wb, opts.Sheets.For(PurposeExpenses))

	prices, detected := extract.ExtractPrices(priceSheet.Rows, extract.PriceOptions{
		RateThreshold: opts.Pricing.RateDetectionThreshold,
	})
	stock := extract.ExtractStock(stockSheet.Rows)
	expenses := extract.ExtractExpenses(expenseSheet.Rows)
	rate := reconcile.ResolveExchangeRate(opts.ExchangeRate, detected, opts.Pricing.DefaultExchangeRate)

	seedProducts, entryItems := reconcile.SeedFromStock(stock, prices, opts.Pricing)
	priceListSeeds := reconcile.SeedFromPriceList(prices, rate, opts.Pricing)

	result := &models.Result{
		Prices:          prices,
		Stock:           stock,
		Expenses:        expenses,
		SeedProducts:    seedProducts,
		StockEntryItems: entryItems,
		PriceListSeeds:  priceListSeeds,
	}
	result.Summary = models.Summary{
		RunID:    uuid.NewString(),
		BookName: wb.BookName,
		SheetsDetected: models.SheetsDetected{
			Price:    sheetName(priceSheet, priceOK),
			Stock:    sheetName(stockSheet, stockOK),
			Expenses: sheetName(expenseSheet, expenseOK),
		},
		Counts: models.Counts{
			Prices:                len(prices),
			StockRows:             len(stock),
			Expenses:              len(expenses),
			SeedProducts:          len(seedProducts),
			SeedProductsPriceList: len(priceListSeeds),
		},
		ExchangeRate: rate,
		Examples: models.Examples{
			Product: head(seedProducts, opts.ExampleProducts),
			Expense: head(expenses, opts.ExampleExpenses),
		},
	}

	return result
}

// DetectSheet returns the first sheet, in workbook order, whose upper-cased
// name contains one of the patterns.
func DetectSheet(wb *models.Workbook, patterns []string) (models.Sheet, bool) {
	upper := cases.Upper(language.Und)
	for _, s := range wb.Sheets {
		name := upper.String(s.Name)
		for _, p := range patterns {
			if p != "" && strings.Contains(name, upper.String(p)) {
				return s, true
			}
		}
	}
	return models.Sheet{}, false
}

// ResolveWorkbookPath returns explicit when set, otherwise the first
// candidate that exists on disk.
func ResolveWorkbookPath(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, explicit)
		}
		return explicit, nil
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v", ErrFileNotFound, candidates)
}

func sheetName(s models.Sheet, ok bool) *string {
	if !ok {
		return nil
	}
	name := s.Name
	return &name
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
