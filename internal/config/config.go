// Package config loads sheetseed settings from defaults, an optional config
// file, SHEETSEED_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lbelectronica/sheetseed/internal/logger"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

// EnvPrefix prefixes every environment variable, e.g. SHEETSEED_API_PASSWORD.
const EnvPrefix = "SHEETSEED"

// EntryDateLayout is the layout of Import.EntryDate.
const EntryDateLayout = "2006-01-02"

// Config is the full sheetseed configuration.
type Config struct {
	Workbook     WorkbookConfig          `mapstructure:"workbook"`
	Sheets       sheetseed.SheetPatterns `mapstructure:"sheets"`
	Pricing      reconcile.Pricing       `mapstructure:"pricing"`
	ExchangeRate float64                 `mapstructure:"exchange_rate" validate:"gte=0"`
	Output       OutputConfig            `mapstructure:"output"`
	API          APIConfig               `mapstructure:"api"`
	Import       ImportConfig            `mapstructure:"import"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Log          logger.Config           `mapstructure:"log"`
}

// WorkbookConfig locates the source workbook.
type WorkbookConfig struct {
	Path       string   `mapstructure:"path"`
	Candidates []string `mapstructure:"candidates"`
}

// OutputConfig controls where extraction results go.
type OutputConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Pretty bool   `mapstructure:"pretty"`
}

// APIConfig holds the remote API connection settings.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	Username  string        `mapstructure:"username" validate:"required"`
	Password  string        `mapstructure:"password"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gte=0"`
}

// ImportConfig tunes the import pass.
type ImportConfig struct {
	Apply           bool   `mapstructure:"apply"`
	MaxExpenses     int    `mapstructure:"max_expenses"`
	Supplier        string `mapstructure:"supplier"`
	Notes           string `mapstructure:"notes"`
	ExpenseCategory string `mapstructure:"expense_category"`
	// EntryDate is the stock entry date (YYYY-MM-DD); empty means today.
	EntryDate string `mapstructure:"entry_date" validate:"omitempty,datetime=2006-01-02"`
}

// Date returns the configured entry date, or the current UTC day.
func (c ImportConfig) Date(now time.Time) time.Time {
	if c.EntryDate != "" {
		if d, err := time.Parse(EntryDateLayout, c.EntryDate); err == nil {
			return d
		}
	}
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatabaseConfig points at the local SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	sheets := sheetseed.DefaultSheetPatterns()
	pricing := reconcile.DefaultPricing()
	log := logger.DefaultConfig()

	v.SetDefault("workbook.path", "")
	v.SetDefault("workbook.candidates", []string{"FEBRERO.xlsx", "data/FEBRERO.xlsx"})
	v.SetDefault("sheets.price", sheets.Price)
	v.SetDefault("sheets.stock", sheets.Stock)
	v.SetDefault("sheets.expenses", sheets.Expenses)
	v.SetDefault("pricing.markup", pricing.Markup)
	v.SetDefault("pricing.default_margin", pricing.DefaultMargin)
	v.SetDefault("pricing.default_exchange_rate", pricing.DefaultExchangeRate)
	v.SetDefault("pricing.rate_detection_threshold", pricing.RateDetectionThreshold)
	v.SetDefault("exchange_rate", 0.0)
	v.SetDefault("output.dir", "data/import")
	v.SetDefault("output.pretty", true)
	v.SetDefault("api.base_url", "http://127.0.0.1:5081")
	v.SetDefault("api.username", "admin")
	v.SetDefault("api.password", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 0.0)
	v.SetDefault("import.apply", false)
	v.SetDefault("import.max_expenses", 3)
	v.SetDefault("import.supplier", "CARGA INICIAL")
	v.SetDefault("import.notes", "Importacion inicial desde planilla")
	v.SetDefault("import.expense_category", "GASTO FIJO")
	v.SetDefault("import.entry_date", "")
	v.SetDefault("database.path", "lb_electronica.db")
	v.SetDefault("log.level", log.Level)
	v.SetDefault("log.format", log.Format)
	v.SetDefault("log.output", log.Output)
}

// BindFlags binds config keys to command-line flags. Flags only override
// the other sources when set explicitly.
func BindFlags(v *viper.Viper, flags map[string]*pflag.Flag) error {
	for key, flag := range flags {
		if flag == nil {
			return fmt.Errorf("bind %s: flag not defined", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configFile when given, then decodes and validates v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and reports the first offending key.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config %s: failed %q", fe.Namespace(), fe.Tag())
	}
	return err
}

// ExtractOptions converts the config into extraction options.
func (c *Config) ExtractOptions() sheetseed.Options {
	opts := sheetseed.DefaultOptions()
	opts.Sheets = c.Sheets
	opts.Pricing = c.Pricing
	opts.ExchangeRate = c.ExchangeRate
	return opts
}
