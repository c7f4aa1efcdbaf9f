package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"FEBRERO.xlsx", "data/FEBRERO.xlsx"}, cfg.Workbook.Candidates)
	assert.Equal(t, []string{"LISTA"}, cfg.Sheets.Price)
	assert.Equal(t, 1.8, cfg.Pricing.Markup)
	assert.Equal(t, 1450.0, cfg.Pricing.DefaultExchangeRate)
	assert.Equal(t, "data/import", cfg.Output.Dir)
	assert.Equal(t, "http://127.0.0.1:5081", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.Import.MaxExpenses)
	assert.Equal(t, "GASTO FIJO", cfg.Import.ExpenseCategory)
	assert.False(t, cfg.Import.Apply)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SHEETSEED_API_PASSWORD", "secret")
	t.Setenv("SHEETSEED_PRICING_MARKUP", "1.5")
	t.Setenv("SHEETSEED_IMPORT_MAX_EXPENSES", "7")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.API.Password)
	assert.Equal(t, 1.5, cfg.Pricing.Markup)
	assert.Equal(t, 7, cfg.Import.MaxExpenses)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheetseed.yaml")
	content := `
exchange_rate: 1200
api:
  base_url: http://shop.local:8080
  timeout: 5s
sheets:
  price: [PRECIOS, LISTA]
import:
  entry_date: "2026-02-18"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, cfg.ExchangeRate)
	assert.Equal(t, "http://shop.local:8080", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, []string{"PRECIOS", "LISTA"}, cfg.Sheets.Price)
	assert.Equal(t, []string{"STOCK"}, cfg.Sheets.Stock)
	assert.Equal(t, time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC), cfg.Import.Date(time.Now()))

	opts := cfg.ExtractOptions()
	assert.Equal(t, 1200.0, opts.ExchangeRate)
	assert.Equal(t, cfg.Sheets, opts.Sheets)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base", "", "")
	fs.Bool("apply", false, "")
	require.NoError(t, fs.Parse([]string{"--base", "http://10.0.0.2:5081"}))

	v := New()
	require.NoError(t, BindFlags(v, map[string]*pflag.Flag{
		"api.base_url": fs.Lookup("base"),
		"import.apply": fs.Lookup("apply"),
	}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:5081", cfg.API.BaseURL)
	assert.False(t, cfg.Import.Apply, "unset flag keeps the default")

	err = BindFlags(v, map[string]*pflag.Flag{"api.username": fs.Lookup("user")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero markup", func(c *Config) { c.Pricing.Markup = 0 }},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"empty price patterns", func(c *Config) { c.Sheets.Price = nil }},
		{"bad entry date", func(c *Config) { c.Import.EntryDate = "18/02/2026" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"negative rate", func(c *Config) { c.ExchangeRate = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(New(), "")
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestImportDateDefaultsToToday(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ImportConfig{}.Date(now))
}
