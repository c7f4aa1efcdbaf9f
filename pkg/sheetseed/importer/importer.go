// Package importer pushes seed records into the retail-management API.
// Runs are dry by default: lookups happen, mutations only with Apply.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/api"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

// API is the subset of the remote API the importer uses.
type API interface {
	SearchProducts(ctx context.Context, q string) ([]api.Product, error)
	CreateProduct(ctx context.Context, p api.ProductUpsert) (*api.Product, error)
	CreateStockEntry(ctx context.Context, e api.StockEntry) (json.RawMessage, error)
	CurrentCashSession(ctx context.Context) (*api.CashSession, error)
	OpenCashSession(ctx context.Context, openingAmount float64) (*api.CashSession, error)
	CreateCashMovement(ctx context.Context, m api.CashMovement) error
}

// Options configures an import run.
type Options struct {
	// Apply enables mutations. Without it the run only reports.
	Apply bool
	// MaxExpenses caps how many expenses are posted; negative means none.
	MaxExpenses int
	// EntryDate, Supplier, DocumentNumber and Notes describe the stock entry.
	EntryDate      time.Time
	Supplier       string
	DocumentNumber string
	Notes          string
	// ExchangeRate is recorded on the stock entry.
	ExchangeRate float64
	// ExpenseCategory labels every posted cash movement.
	ExpenseCategory string
}

// Report summarises an import run.
type Report struct {
	Base                     string          `json:"base"`
	DryRun                   bool            `json:"dry_run"`
	PriceListSeeds           int             `json:"products_price_list_seed"`
	PriceListNewDetected     int             `json:"products_price_list_new_detected"`
	StockSeeds               int             `json:"products_total_seed"`
	StockNewDetected         int             `json:"products_new_detected"`
	StockItemsReady          int             `json:"stock_items_ready"`
	StockItemsMissingProduct []string        `json:"stock_items_missing_product"`
	StockEntryResult         json.RawMessage `json:"stock_entry_result"`
	ExpensesSelected         int             `json:"expenses_selected"`
	ExpensesApplied          int             `json:"expenses_applied"`
}

// ProductIndex maps normalized product names to remote product ids. It is
// filled as products are found or created and consulted when building the
// stock entry.
type ProductIndex map[string]int

// Lookup returns the remote id recorded for name.
func (idx ProductIndex) Lookup(name string) (int, bool) {
	id, ok := idx[reconcile.NormalizeName(name)]
	return id, ok
}

// Record stores the remote id for name.
func (idx ProductIndex) Record(name string, id int) {
	idx[reconcile.NormalizeName(name)] = id
}

// Importer runs the import steps against an API.
type Importer struct {
	api    API
	opts   Options
	logger *zap.Logger
}

// New returns an Importer. A nil logger disables logging.
func New(client API, opts Options, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{api: client, opts: opts, logger: logger}
}

// Run executes every step in order and stops at the first API error.
// Records created before the failure are not rolled back.
func (imp *Importer) Run(ctx context.Context, in *Input) (*Report, error) {
	report := &Report{
		DryRun:                   !imp.opts.Apply,
		PriceListSeeds:           len(in.PriceListSeeds),
		StockSeeds:               len(in.SeedProducts),
		StockItemsMissingProduct: []string{},
	}
	idx := ProductIndex{}

	created, err := imp.ensurePriceList(ctx, in.PriceListSeeds, idx)
	if err != nil {
		return nil, fmt.Errorf("price list products: %w", err)
	}
	report.PriceListNewDetected = created

	created, err = imp.ensureStockProducts(ctx, in.SeedProducts, idx)
	if err != nil {
		return nil, fmt.Errorf("stock products: %w", err)
	}
	report.StockNewDetected = created

	items, missing, err := imp.resolveStockItems(ctx, in.StockEntryItems, idx)
	if err != nil {
		return nil, fmt.Errorf("stock items: %w", err)
	}
	report.StockItemsReady = len(items)
	report.StockItemsMissingProduct = append(report.StockItemsMissingProduct, missing...)

	if imp.opts.Apply && len(items) > 0 {
		result, err := imp.api.CreateStockEntry(ctx, imp.stockEntry(items))
		if err != nil {
			return nil, fmt.Errorf("stock entry: %w", err)
		}
		report.StockEntryResult = result
		imp.logger.Info("stock entry created", zap.Int("items", len(items)))
	}

	expenses := selectExpenses(in.Expenses, imp.opts.MaxExpenses)
	report.ExpensesSelected = len(expenses)
	if imp.opts.Apply && len(expenses) > 0 {
		applied, err := imp.applyExpenses(ctx, expenses)
		report.ExpensesApplied = applied
		if err != nil {
			return nil, fmt.Errorf("expenses: %w", err)
		}
	}

	return report, nil
}

// ensurePriceList makes sure every price list product exists. Returns the
// number of products not found remotely.
func (imp *Importer) ensurePriceList(ctx context.Context, seeds []models.PriceListSeed, idx ProductIndex) (int, error) {
	created := 0
	for _, s := range seeds {
		payload := api.ProductUpsert{
			Name:          s.Name,
			Category:      s.Category,
			CostPrice:     float64Ptr(s.CostPriceUSD),
			MarginPercent: float64Ptr(s.MarginPercent),
			StockQuantity: 0,
			StockMinimum:  s.StockMinimum,
			Active:        true,
		}
		isNew, err := imp.ensureProduct(ctx, payload, idx)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	imp.logger.Info("price list products checked", zap.Int("seeds", len(seeds)), zap.Int("new", created))
	return created, nil
}

// ensureStockProducts makes sure every stock sheet product exists.
func (imp *Importer) ensureStockProducts(ctx context.Context, seeds []models.SeedProduct, idx ProductIndex) (int, error) {
	created := 0
	for _, s := range seeds {
		payload := api.ProductUpsert{
			Name:          s.Name,
			Category:      s.Category,
			CostPrice:     float64Ptr(s.CostPrice),
			MarginPercent: float64Ptr(s.MarginPercent),
			SalePrice:     float64Ptr(s.SalePrice),
			StockQuantity: 0,
			StockMinimum:  s.StockMinimum,
			Active:        true,
		}
		isNew, err := imp.ensureProduct(ctx, payload, idx)
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	imp.logger.Info("stock products checked", zap.Int("seeds", len(seeds)), zap.Int("new", created))
	return created, nil
}

// ensureProduct records the remote id of an existing product, or creates it
// when applying. Reports whether the product was missing remotely.
func (imp *Importer) ensureProduct(ctx context.Context, payload api.ProductUpsert, idx ProductIndex) (bool, error) {
	found, err := imp.findByName(ctx, payload.Name)
	if err != nil {
		return false, err
	}
	if found != nil {
		idx.Record(payload.Name, found.ID)
		return false, nil
	}

	if imp.opts.Apply {
		p, err := imp.api.CreateProduct(ctx, payload)
		if err != nil {
			return false, err
		}
		idx.Record(payload.Name, p.ID)
		imp.logger.Debug("product created", zap.String("name", payload.Name), zap.Int("id", p.ID))
	}
	return true, nil
}

// resolveStockItems maps stock entry lines to remote product ids.
func (imp *Importer) resolveStockItems(ctx context.Context, items []models.StockEntryItem, idx ProductIndex) ([]api.StockEntryItem, []string, error) {
	var out []api.StockEntryItem
	var missing []string
	for _, s := range items {
		id, ok := idx.Lookup(s.ProductName)
		if !ok {
			found, err := imp.findByName(ctx, s.ProductName)
			if err != nil {
				return nil, nil, err
			}
			if found != nil {
				id, ok = found.ID, true
			}
		}
		if !ok {
			missing = append(missing, s.ProductName)
			continue
		}

		productID := id
		out = append(out, api.StockEntryItem{
			ProductID:           &productID,
			Qty:                 s.Quantity,
			PurchaseUnitCostUSD: s.CostPrice,
			MarginPercent:       float64Ptr(s.MarginPercent),
		})
	}
	return out, missing, nil
}

func (imp *Importer) stockEntry(items []api.StockEntryItem) api.StockEntry {
	var rate *float64
	if imp.opts.ExchangeRate > 0 {
		rate = float64Ptr(imp.opts.ExchangeRate)
	}
	return api.StockEntry{
		Date:            imp.opts.EntryDate,
		Supplier:        imp.opts.Supplier,
		DocumentNumber:  imp.opts.DocumentNumber,
		Notes:           imp.opts.Notes,
		LogisticsUSD:    0,
		ExchangeRateARS: rate,
		Items:           items,
	}
}

// applyExpenses posts expenses as cash movements, opening a session first
// when none is current.
func (imp *Importer) applyExpenses(ctx context.Context, expenses []models.ExpenseRecord) (int, error) {
	current, err := imp.api.CurrentCashSession(ctx)
	if err != nil {
		return 0, err
	}
	if current == nil {
		if _, err := imp.api.OpenCashSession(ctx, 0); err != nil {
			return 0, err
		}
		imp.logger.Info("cash session opened")
	}

	var category *string
	if imp.opts.ExpenseCategory != "" {
		c := imp.opts.ExpenseCategory
		category = &c
	}

	applied := 0
	for _, e := range expenses {
		err := imp.api.CreateCashMovement(ctx, api.CashMovement{
			Type:     api.CashMovementExpense,
			Amount:   e.Amount,
			Reason:   fmt.Sprintf("%s (importado)", e.Reason),
			Category: category,
		})
		if err != nil {
			return applied, err
		}
		applied++
	}
	imp.logger.Info("expenses applied", zap.Int("count", applied))
	return applied, nil
}

// findByName searches the API and returns the product whose normalized
// name equals name's, or nil.
func (imp *Importer) findByName(ctx context.Context, name string) (*api.Product, error) {
	matches, err := imp.api.SearchProducts(ctx, name)
	if err != nil {
		return nil, err
	}
	key := reconcile.NormalizeName(name)
	for i := range matches {
		if reconcile.NormalizeName(matches[i].Name) == key {
			return &matches[i], nil
		}
	}
	return nil, nil
}

func selectExpenses(expenses []models.ExpenseRecord, limit int) []models.ExpenseRecord {
	limit = min(max(limit, 0), len(expenses))
	return expenses[:limit]
}

func float64Ptr(v float64) *float64 {
	return &v
}
