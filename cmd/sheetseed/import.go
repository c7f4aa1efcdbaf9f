package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed/api"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/importer"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/models"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/output"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/reconcile"
)

var (
	baseURL     string
	username    string
	password    string
	dataDir     string
	maxExpenses int
	apply       bool
	timeout     time.Duration
	rateLimit   float64
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the seed files into the retail API (dry run unless --apply)",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}

	cmd.Flags().StringVar(&baseURL, "base", "", "API base URL (default: http://127.0.0.1:5081)")
	cmd.Flags().StringVar(&username, "username", "", "API username (default: admin)")
	cmd.Flags().StringVar(&password, "password", "", "API password")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory with the seed files (default: data/import)")
	cmd.Flags().IntVar(&maxExpenses, "max-expenses", 3, "Number of expenses to post")
	cmd.Flags().BoolVar(&apply, "apply", false, "Create records instead of only reporting")
	cmd.Flags().DurationVar(&timeout, "timeout", api.DefaultTimeout, "Per-request timeout")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "Maximum requests per second (0: unlimited)")
	bindFlag(cmd, "api.base_url", "base")
	bindFlag(cmd, "api.username", "username")
	bindFlag(cmd, "api.password", "password")
	bindFlag(cmd, "output.dir", "data-dir")
	bindFlag(cmd, "import.max_expenses", "max-expenses")
	bindFlag(cmd, "import.apply", "apply")
	bindFlag(cmd, "api.timeout", "timeout")
	bindFlag(cmd, "api.rate_limit", "rate-limit")
	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	if cfg.API.Password == "" {
		return errors.New("api password required (--password or SHEETSEED_API_PASSWORD)")
	}

	in, err := importer.LoadInput(cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to load seed files: %w", err)
	}
	summary := loadSummary(cfg.Output.Dir)

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit),
		api.WithLogger(log),
	)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := client.Login(ctx, cfg.API.Username, cfg.API.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	log.Info("logged in", zap.String("base", client.BaseURL()), zap.Bool("apply", cfg.Import.Apply))

	opts := importer.Options{
		Apply:           cfg.Import.Apply,
		MaxExpenses:     cfg.Import.MaxExpenses,
		EntryDate:       cfg.Import.Date(time.Now()),
		Supplier:        cfg.Import.Supplier,
		DocumentNumber:  summary.BookName,
		Notes:           cfg.Import.Notes,
		ExchangeRate:    reconcile.ResolveExchangeRate(cfg.ExchangeRate, positive(summary.ExchangeRate), cfg.Pricing.DefaultExchangeRate),
		ExpenseCategory: cfg.Import.ExpenseCategory,
	}
	report, err := importer.New(client, opts, log).Run(ctx, in)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	report.Base = client.BaseURL()

	data, err := output.ToJSON(report, true)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// loadSummary reads the extraction summary for the workbook name and rate.
// A missing or unreadable summary falls back to the shop's workbook name.
func loadSummary(dir string) models.Summary {
	var summary models.Summary
	if err := output.ReadJSON(filepath.Join(dir, output.SummaryFile), &summary); err != nil {
		log.Warn("summary not available", zap.Error(err))
	}
	if summary.BookName == "" {
		summary.BookName = "FEBRERO.xlsx"
	}
	return summary
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
