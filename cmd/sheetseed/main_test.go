package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/importer"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/output"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "LISTA DE PRECIOS"))
	_, err := f.NewSheet("STOCK")
	require.NoError(t, err)
	_, err = f.NewSheet("GASTOS")
	require.NoError(t, err)

	cells := map[string]map[string]interface{}{
		"LISTA DE PRECIOS": {
			"A1": "CATEGORIA", "B1": "PRODUCTO",
			"A2": "CABLES", "B2": "CABLE USB", "C2": 1500, "J2": 800,
			"A3": "AUDIO", "B3": "AURICULAR", "C3": 900,
		},
		"STOCK": {
			"A2": "CABLES", "B2": "CABLE USB", "C2": 3, "D2": 800,
		},
		"GASTOS": {
			"A2": "ALQUILER", "E2": 350000,
		},
	}
	for sheet, values := range cells {
		for ref, v := range values {
			require.NoError(t, f.SetCellValue(sheet, ref, v))
		}
	}

	path := filepath.Join(t.TempDir(), "FEBRERO.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()

	stdout, err := execute(t, "extract", writeWorkbook(t), "--out-dir", dir, "--exchange-rate", "1000")
	require.NoError(t, err)

	var summary models.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, "FEBRERO.xlsx", summary.BookName)
	assert.Equal(t, 1000.0, summary.ExchangeRate)
	assert.Equal(t, 2, summary.Counts.Prices)

	var seeds []models.PriceListSeed
	require.NoError(t, output.ReadJSON(filepath.Join(dir, output.PriceListSeedsFile), &seeds))
	require.Len(t, seeds, 2)
	assert.Equal(t, 0.8, seeds[0].CostPriceUSD)

	_, err = importer.LoadInput(dir)
	assert.NoError(t, err)
}

func TestExtractCommandMissingWorkbook(t *testing.T) {
	_, err := execute(t, "extract", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, sheetseed.ErrFileNotFound)
}

func TestImportCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "extract", writeWorkbook(t), "--out-dir", dir)
	require.NoError(t, err)

	var mutations int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "lb_auth", Value: "ok", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			mutations++
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	stdout, err := execute(t, "import", "--base", srv.URL, "--password", "x", "--data-dir", dir)
	require.NoError(t, err)

	var report importer.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.DryRun)
	assert.Equal(t, srv.URL, report.Base)
	assert.Equal(t, 2, report.PriceListNewDetected)
	assert.Equal(t, 1, report.StockNewDetected)
	assert.Equal(t, []string{"CABLE USB"}, report.StockItemsMissingProduct)
	assert.Equal(t, 1, report.ExpensesSelected)
	assert.Zero(t, report.ExpensesApplied)
	assert.Zero(t, mutations)
}

func TestImportCommandRequiresPassword(t *testing.T) {
	t.Setenv("SHEETSEED_API_PASSWORD", "")
	_, err := execute(t, "import", "--data-dir", t.TempDir())
	assert.Error(t, err)
}

func TestCategoriesCommandMissingDatabase(t *testing.T) {
	_, err := execute(t, "categories", writeWorkbook(t), "--db", filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorIs(t, err, sheetseed.ErrFileNotFound)
}
