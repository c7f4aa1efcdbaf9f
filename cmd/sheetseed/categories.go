package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/catalog"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/extract"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/output"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/parser"
)

var dbPath string

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories [workbook.xlsx]",
		Short: "Update product categories in the local database from the price list",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCategories,
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: lb_electronica.db)")
	bindFlag(cmd, "database.path", "db")
	return cmd
}

func runCategories(cmd *cobra.Command, args []string) error {
	path, err := workbookPath(args)
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	wb, err := parser.LoadWorkbook(path)
	if err != nil {
		return sheetseed.NewExtractionError(path, "load", err)
	}
	sheet, ok := sheetseed.DetectSheet(wb, cfg.Sheets.Price)
	if !ok {
		return sheetseed.NewExtractionError(path, "detect", fmt.Errorf("%w: price list", sheetseed.ErrSheetNotFound))
	}
	prices, _ := extract.ExtractPrices(sheet.Rows, extract.PriceOptions{
		RateThreshold: cfg.Pricing.RateDetectionThreshold,
	})

	res, err := store.SyncCategories(cmd.Context(), catalog.CategoryMapping(prices))
	if err != nil {
		return fmt.Errorf("category sync failed: %w", err)
	}
	log.Info("categories synced",
		zap.String("workbook", path),
		zap.String("db", cfg.Database.Path),
		zap.Int("updated", res.Updated),
		zap.Int("inserted_categories", res.InsertedCategories),
	)

	data, err := output.ToJSON(res, true)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
