// Package extract maps the rows of the price list, stock and expense
// sheets onto typed records.
package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

// DefaultCategory is used when a row leaves the category column empty.
const DefaultCategory = "General"

// ParseNumber parses a spreadsheet number where the decimal separator may be
// a comma. It returns nil for empty or unparseable text, never zero.
func ParseNumber(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// cell returns the trimmed value at the 1-based column, or "".
func cell(row []string, col int) string {
	return strings.TrimSpace(models.Cell(row, col))
}

// number parses the value at the 1-based column.
func number(row []string, col int) *float64 {
	return ParseNumber(models.Cell(row, col))
}

func orDefaultCategory(category string) string {
	if category == "" {
		return DefaultCategory
	}
	return category
}
