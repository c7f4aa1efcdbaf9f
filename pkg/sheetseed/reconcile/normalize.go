// Package reconcile joins the stock and price list sheets by product name
// and derives the seed records used to populate the shop's catalog.
package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName returns the join key for a product name: trimmed, inner
// whitespace collapsed to single spaces, upper-cased.
func NormalizeName(s string) string {
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(s), " "))
}
