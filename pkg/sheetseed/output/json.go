// Package output serializes extraction results to JSON files.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// File names written by WriteResult and read back by the importer.
const (
	PricesFile         = "prices.json"
	StockFile          = "stock.json"
	ExpensesFile       = "expenses.json"
	SeedProductsFile   = "seed_products_from_stock.json"
	StockEntryFile     = "seed_stock_entry_items.json"
	PriceListSeedsFile = "seed_products_from_price_list.json"
	SummaryFile        = "summary.json"
)

// ToJSON encodes v as UTF-8 JSON without HTML escaping, indented when pretty.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v interface{}) error {
	data, err := ToJSON(v, true)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteResult writes every collection of result, and its summary, to dir.
func WriteResult(dir string, result *models.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	files := []struct {
		name string
		v    interface{}
	}{
		{PricesFile, result.Prices},
		{StockFile, result.Stock},
		{ExpensesFile, result.Expenses},
		{SeedProductsFile, result.SeedProducts},
		{StockEntryFile, result.StockEntryItems},
		{PriceListSeedsFile, result.PriceListSeeds},
		{SummaryFile, result.Summary},
	}
	for _, f := range files {
		if err := WriteJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}

	return nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", sheetseed.ErrFileNotFound, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
