package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCategoryMapping(t *testing.T) {
	mapping := CategoryMapping([]models.PriceRecord{
		{Category: "CABLES", Name: " cable   usb "},
		{Category: "  ", Name: "Funda"},
		{Category: "AUDIO", Name: "  "},
		{Category: "CARGADORES", Name: "CABLE USB"},
	})

	assert.Equal(t, map[string]string{
		"CABLE USB": "CARGADORES",
		"FUNDA":     "General",
	}, mapping)
}

func TestSyncCategories(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(createCategoriesTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectProducts).WillReturnRows(
		sqlmock.NewRows([]string{"Id", "Name", "Category"}).
			AddRow(1, "Cable USB", "General").
			AddRow(2, "FUNDA", " FUNDAS ").
			AddRow(3, "PARLANTE", nil).
			AddRow(4, nil, nil),
	)
	mock.ExpectExec(updateProductCategory).WithArgs("CABLES", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectProductCategories).WillReturnRows(
		sqlmock.NewRows([]string{"Category"}).AddRow("CABLES").AddRow(" FUNDAS "),
	)
	mock.ExpectQuery(selectCatalogCategory).WithArgs("CABLES").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(insertCatalogCategory).WithArgs("CABLES").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(selectCatalogCategory).WithArgs(" FUNDAS ").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectCommit()

	res, err := store.SyncCategories(context.Background(), map[string]string{
		"CABLE USB": "CABLES",
		"FUNDA":     "FUNDAS",
	})
	require.NoError(t, err)

	assert.Equal(t, SyncResult{Updated: 1, InsertedCategories: 1}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCategoriesRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec(createCategoriesTable).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectProducts).WillReturnRows(
		sqlmock.NewRows([]string{"Id", "Name", "Category"}).AddRow(1, "CABLE USB", "General"),
	)
	mock.ExpectExec(updateProductCategory).WithArgs("CABLES", int64(1)).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := store.SyncCategories(context.Background(), map[string]string{"CABLE USB": "CABLES"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, sheetseed.ErrFileNotFound)
}

func TestSyncCategoriesSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE Products (Id INTEGER PRIMARY KEY, Name TEXT, Category TEXT, UpdatedAt TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO Products (Id, Name, Category, UpdatedAt) VALUES
		(1, 'Cable USB', 'General', ''),
		(2, 'FUNDA', 'FUNDAS', ''),
		(3, 'OTRO', '', '')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	mapping := map[string]string{"CABLE USB": "CABLES", "FUNDA": "FUNDAS"}
	res, err := store.SyncCategories(context.Background(), mapping)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Updated: 1, InsertedCategories: 2}, res)

	res, err = store.SyncCategories(context.Background(), mapping)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{}, res, "second run is a no-op")

	var category string
	require.NoError(t, store.db.QueryRow(`SELECT Category FROM Products WHERE Id = 1`).Scan(&category))
	assert.Equal(t, "CABLES", category)
}
