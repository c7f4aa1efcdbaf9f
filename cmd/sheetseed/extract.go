package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lbelectronica/sheetseed/pkg/sheetseed"
	"github.com/lbelectronica/sheetseed/pkg/sheetseed/output"
)

var (
	outDir       string
	pretty       bool
	exchangeRate float64
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [workbook.xlsx]",
		Short: "Extract seed JSON files from the workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExtract,
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for the JSON files (default: data/import)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "Pretty-print the summary")
	cmd.Flags().Float64Var(&exchangeRate, "exchange-rate", 0, "Exchange rate override (0: detect)")
	bindFlag(cmd, "output.dir", "out-dir")
	bindFlag(cmd, "output.pretty", "pretty")
	bindFlag(cmd, "exchange_rate", "exchange-rate")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	path, err := workbookPath(args)
	if err != nil {
		return err
	}

	log.Info("extracting workbook", zap.String("path", path))
	result, err := sheetseed.Extract(path, cfg.ExtractOptions())
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	summary := result.Summary
	log.Info("sheets detected",
		zap.Stringp("price", summary.SheetsDetected.Price),
		zap.Stringp("stock", summary.SheetsDetected.Stock),
		zap.Stringp("expenses", summary.SheetsDetected.Expenses),
		zap.Float64("exchange_rate", summary.ExchangeRate),
	)

	if err := output.WriteResult(cfg.Output.Dir, result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info("seed files written",
		zap.String("dir", cfg.Output.Dir),
		zap.Int("prices", summary.Counts.Prices),
		zap.Int("stock_rows", summary.Counts.StockRows),
		zap.Int("expenses", summary.Counts.Expenses),
	)

	data, err := output.ToJSON(summary, cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// workbookPath resolves the workbook from the argument, the configured
// path, or the first existing candidate.
func workbookPath(args []string) (string, error) {
	explicit := cfg.Workbook.Path
	if len(args) > 0 {
		explicit = args[0]
	}
	return sheetseed.ResolveWorkbookPath(explicit, cfg.Workbook.Candidates)
}
