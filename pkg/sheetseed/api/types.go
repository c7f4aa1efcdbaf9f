package api

import "time"

// CashMovementType mirrors the API's cash movement enum.
type CashMovementType int

const (
	CashMovementIncome  CashMovementType = 1
	CashMovementExpense CashMovementType = 2
)

// Product is a product as returned by the API. Only the fields the importer
// needs are decoded.
type Product struct {
	ID            int      `json:"id"`
	InternalCode  string   `json:"internalCode,omitempty"`
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	CostPrice     *float64 `json:"costPrice,omitempty"`
	MarginPercent *float64 `json:"marginPercent,omitempty"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	StockQuantity float64  `json:"stockQuantity"`
	Active        bool     `json:"active"`
}

// ProductUpsert is the body of a product create request.
type ProductUpsert struct {
	Barcode       *string  `json:"barcode"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Brand         *string  `json:"brand"`
	Model         *string  `json:"model"`
	ImeiOrSerial  *string  `json:"imeiOrSerial"`
	CostPrice     *float64 `json:"costPrice"`
	MarginPercent *float64 `json:"marginPercent"`
	SalePrice     *float64 `json:"salePrice"`
	StockQuantity float64  `json:"stockQuantity"`
	StockMinimum  int      `json:"stockMinimum"`
	Active        bool     `json:"active"`
}

// StockEntryItem is one line of a stock entry. Either ProductID or
// ProductName identifies the product.
type StockEntryItem struct {
	ProductID           *int     `json:"productId"`
	Qty                 float64  `json:"qty"`
	PurchaseUnitCostUSD float64  `json:"purchaseUnitCostUsd"`
	MarginPercent       *float64 `json:"marginPercent"`
	ProductName         *string  `json:"productName"`
	Category            *string  `json:"category"`
}

// StockEntry is the body of a stock entry create request.
type StockEntry struct {
	Date            time.Time        `json:"date"`
	Supplier        string           `json:"supplier"`
	DocumentNumber  string           `json:"documentNumber"`
	Notes           string           `json:"notes"`
	LogisticsUSD    float64          `json:"logisticsUsd"`
	ExchangeRateARS *float64         `json:"exchangeRateArs"`
	Items           []StockEntryItem `json:"items"`
}

// CashSession is the current cash register session.
type CashSession struct {
	ID            int     `json:"id"`
	UserID        int     `json:"userId"`
	OpeningAmount float64 `json:"openingAmount"`
	IsOpen        bool    `json:"isOpen"`
}

// CashMovement is the body of a cash movement request.
type CashMovement struct {
	Type     CashMovementType `json:"type"`
	Amount   float64          `json:"amount"`
	Reason   string           `json:"reason"`
	Category *string          `json:"category"`
}
