package models

// SheetsDetected names the sheet chosen for each purpose; nil when none matched.
type SheetsDetected struct {
	Price    *string `json:"price"`
	Stock    *string `json:"stock"`
	Expenses *string `json:"expenses"`
}

// Counts holds the number of records produced per collection.
type Counts struct {
	Prices                int `json:"prices"`
	StockRows             int `json:"stock_rows"`
	Expenses              int `json:"expenses"`
	SeedProducts          int `json:"seed_products"`
	SeedProductsPriceList int `json:"seed_products_price_list"`
}

// Examples is a small sample of the produced records.
type Examples struct {
	Product []SeedProduct   `json:"product"`
	Expense []ExpenseRecord `json:"expense"`
}

// Summary describes one extraction run.
type Summary struct {
	RunID          string         `json:"run_id"`
	BookName       string         `json:"book_name"`
	SheetsDetected SheetsDetected `json:"sheets_detected"`
	Counts         Counts         `json:"counts"`
	// ExchangeRate is the rate used for foreign-currency costs.
	ExchangeRate float64  `json:"exchange_rate_detected"`
	Examples     Examples `json:"examples"`
}

// Result carries every collection produced by an extraction run.
type Result struct {
	Prices          []PriceRecord    `json:"prices"`
	Stock           []StockRecord    `json:"stock"`
	Expenses        []ExpenseRecord  `json:"expenses"`
	SeedProducts    []SeedProduct    `json:"seed_products"`
	StockEntryItems []StockEntryItem `json:"stock_entry_items"`
	PriceListSeeds  []PriceListSeed  `json:"price_list_seeds"`
	Summary         Summary          `json:"summary"`
}
