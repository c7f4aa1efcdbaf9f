package models

// SeedProduct is a stock row joined with its price-list entry, ready to create.
type SeedProduct struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	CostPrice     float64 `json:"cost_price"`
	SalePrice     float64 `json:"sale_price"`
	MarginPercent float64 `json:"margin_percent"`
	StockMinimum  int     `json:"stock_minimum"`
}

// StockEntryItem is one line of the initial stock entry.
type StockEntryItem struct {
	ProductName   string  `json:"product_name"`
	Quantity      float64 `json:"qty"`
	CostPrice     float64 `json:"cost_price"`
	MarginPercent float64 `json:"margin_percent"`
}

// PriceListSeed is a price-list row prepared for creation with zero stock.
// Cost is expressed in foreign currency (USD).
type PriceListSeed struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	CostPriceUSD    float64 `json:"cost_price_usd"`
	StockQuantity   float64 `json:"stock_quantity"`
	StockMinimum    int     `json:"stock_minimum"`
	MarginPercent   float64 `json:"margin_percent"`
	CashPriceARSRef float64 `json:"cash_price_ars_ref"`
}
