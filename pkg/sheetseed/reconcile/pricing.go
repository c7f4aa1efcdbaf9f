package reconcile

import (
	"math"

	"github.com/shopspring/decimal"
)

// Pricing holds the heuristics used to fill in missing prices.
type Pricing struct {
	// Markup multiplies cost to synthesize a sale price (and divides a
	// sale price to estimate a missing cost).
	Markup float64 `mapstructure:"markup" validate:"gt=0"`
	// DefaultMargin is the margin percent used when cost or sale is unknown.
	DefaultMargin float64 `mapstructure:"default_margin" validate:"gte=0"`
	// DefaultExchangeRate is the local-per-foreign rate used when neither an
	// explicit nor a detected rate is available.
	DefaultExchangeRate float64 `mapstructure:"default_exchange_rate" validate:"gt=0"`
	// RateDetectionThreshold is the exclusive lower bound for accepting a
	// value from the price list as an exchange rate.
	RateDetectionThreshold float64 `mapstructure:"rate_detection_threshold" validate:"gte=0"`
}

// DefaultPricing returns the heuristics of the shop's spreadsheet.
func DefaultPricing() Pricing {
	return Pricing{
		Markup:                 1.8,
		DefaultMargin:          80,
		DefaultExchangeRate:    1450,
		RateDetectionThreshold: 100,
	}
}

// ResolveExchangeRate picks the explicit rate if set, then the detected
// rate, then the default.
func ResolveExchangeRate(explicit float64, detected *float64, fallback float64) float64 {
	if explicit > 0 {
		return explicit
	}
	if detected != nil && *detected > 0 {
		return *detected
	}
	return fallback
}

// Margin returns ((sale / cost) - 1) * 100 rounded to 2 decimals, or 0 when
// cost is not positive.
func Margin(sale, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return Round((sale/cost-1)*100, 2)
}

// Round rounds half away from zero on the shortest decimal form of v.
// Infinities and NaN are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
