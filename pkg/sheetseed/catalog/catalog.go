// Package catalog rewrites product categories in the shop's local SQLite
// database from the price list and keeps the category catalog in sync.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/extract"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

const (
	createCategoriesTable = `CREATE TABLE IF NOT EXISTS ProductCategories (
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	Name TEXT NOT NULL UNIQUE,
	Active INTEGER NOT NULL DEFAULT 1,
	CreatedAt TEXT NOT NULL,
	UpdatedAt TEXT NOT NULL
)`
	selectProducts          = `SELECT Id, Name, Category FROM Products`
	updateProductCategory   = `UPDATE Products SET Category = ?, UpdatedAt = datetime('now') WHERE Id = ?`
	selectProductCategories = `SELECT DISTINCT Category FROM Products WHERE Category IS NOT NULL AND trim(Category) <> ''`
	selectCatalogCategory   = `SELECT 1 FROM ProductCategories WHERE Name = ?`
	insertCatalogCategory   = `INSERT INTO ProductCategories(Name, Active, CreatedAt, UpdatedAt) VALUES(?, 1, datetime('now'), datetime('now'))`
)

// SyncResult counts the changes made by SyncCategories.
type SyncResult struct {
	Updated            int `json:"updated"`
	InsertedCategories int `json:"inserted_categories"`
}

// Store wraps the local database.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path. The file must already exist.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", sheetseed.ErrFileNotFound, path)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return New(db), nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CategoryMapping maps normalized product names to their price list
// category. Later rows win.
func CategoryMapping(prices []models.PriceRecord) map[string]string {
	mapping := make(map[string]string, len(prices))
	for _, p := range prices {
		name := reconcile.NormalizeName(p.Name)
		if name == "" {
			continue
		}
		category := strings.TrimSpace(p.Category)
		if category == "" {
			category = extract.DefaultCategory
		}
		mapping[name] = category
	}
	return mapping
}

type productRow struct {
	id       int64
	name     string
	category string
}

// SyncCategories updates every product whose normalized name is in mapping
// with a different category, then adds every non-blank product category
// missing from ProductCategories. Everything runs in one transaction.
func (s *Store) SyncCategories(ctx context.Context, mapping map[string]string) (SyncResult, error) {
	var res SyncResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createCategoriesTable); err != nil {
		return res, fmt.Errorf("create categories table: %w", err)
	}

	products, err := loadProducts(ctx, tx)
	if err != nil {
		return res, err
	}
	for _, p := range products {
		category, ok := mapping[reconcile.NormalizeName(p.name)]
		if !ok || strings.TrimSpace(p.category) == category {
			continue
		}
		if _, err := tx.ExecContext(ctx, updateProductCategory, category, p.id); err != nil {
			return res, fmt.Errorf("update product %d: %w", p.id, err)
		}
		res.Updated++
	}

	categories, err := loadCategories(ctx, tx)
	if err != nil {
		return res, err
	}
	for _, category := range categories {
		var exists int
		err := tx.QueryRowContext(ctx, selectCatalogCategory, category).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return res, fmt.Errorf("lookup category %q: %w", category, err)
		}
		if _, err := tx.ExecContext(ctx, insertCatalogCategory, category); err != nil {
			return res, fmt.Errorf("insert category %q: %w", category, err)
		}
		res.InsertedCategories++
	}

	if err := tx.Commit(); err != nil {
		return SyncResult{}, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

func loadProducts(ctx context.Context, tx *sql.Tx) ([]productRow, error) {
	rows, err := tx.QueryContext(ctx, selectProducts)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []productRow
	for rows.Next() {
		var (
			p        productRow
			name     sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&p.id, &name, &category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.name, p.category = name.String, category.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadCategories(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, selectProductCategories)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	return out, rows.Err()
}
