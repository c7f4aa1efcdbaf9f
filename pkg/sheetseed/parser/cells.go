// Package parser reads xlsx archives directly from their OOXML parts.
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// rawCell holds what a c element declares before its value is resolved.
type rawCell struct {
	ref       string
	cellType  string
	raw       string
	hasValue  bool
	inline    string
	hasInline bool
}

// value resolves the cell text. Shared-string references that cannot be
// resolved fall back to the raw value.
func (c rawCell) value(shared []string) string {
	if c.hasValue {
		if c.cellType == "s" {
			if idx, err := strconv.Atoi(strings.TrimSpace(c.raw)); err == nil && idx >= 0 && idx < len(shared) {
				return shared[idx]
			}
		}
		return c.raw
	}
	if c.hasInline {
		return c.inline
	}
	return ""
}

// ColumnIndex returns the 1-based column of a cell reference such as "B7"
// or "aa3". Only the letters of the reference are considered.
func ColumnIndex(ref string) (int, error) {
	letters := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			return r
		}
		return -1
	}, ref)
	return excelize.ColumnNameToNumber(letters)
}
