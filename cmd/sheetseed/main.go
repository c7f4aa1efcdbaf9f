// Package main provides the CLI entry point for sheetseed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lbelectronica/sheetseed/internal/config"
	"github.com/lbelectronica/sheetseed/internal/logger"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *zap.Logger
)

// flagKeys maps each command's flags to the config keys they override.
var flagKeys = map[*cobra.Command]map[string]string{}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if flagKeys[cmd] == nil {
		flagKeys[cmd] = map[string]string{}
	}
	flagKeys[cmd][key] = flag
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetseed",
		Short: "Migrate the shop's monthly workbook into the retail API",
		Long: `sheetseed extracts prices, stock and fixed expenses from the shop's
workbook, writes seed JSON files, imports them into the retail-management
API and syncs product categories in the local database.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format: console, json")
	bindFlag(rootCmd, "log.level", "log-level")
	bindFlag(rootCmd, "log.format", "log-format")

	rootCmd.AddCommand(newExtractCmd(), newImportCmd(), newCategoriesCmd())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration with the running command's flags bound
// over it and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	v := config.New()

	flags := map[string]*pflag.Flag{}
	for c := cmd; c != nil; c = c.Parent() {
		for key, name := range flagKeys[c] {
			if _, ok := flags[key]; !ok {
				flags[key] = cmd.Flags().Lookup(name)
			}
		}
	}
	if err := config.BindFlags(v, flags); err != nil {
		return err
	}

	loaded, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	log, err = logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	return nil
}
