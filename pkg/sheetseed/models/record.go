package models

// ExpenseType is the fixed type tag carried by every expense record.
const ExpenseType = "expense"

// PriceRecord is a row of the price list sheet.
type PriceRecord struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	// SalePrice is the cash sale price in local currency; nil when the cell is absent.
	SalePrice *float64 `json:"sale_price_ars"`
	// CostPrice is the local-currency cost; nil when the cell is absent.
	CostPrice *float64 `json:"cost_price"`
}

// StockRecord is a row of the stock sheet.
type StockRecord struct {
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"qty"`
	CostPrice float64 `json:"cost_price"`
}

// ExpenseRecord is a row of the fixed-expenses sheet.
type ExpenseRecord struct {
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}
