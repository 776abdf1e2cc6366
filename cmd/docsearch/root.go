package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarplus/docsearch/internal/app"
	"github.com/stellarplus/docsearch/internal/config"
	"github.com/stellarplus/docsearch/internal/logger"
)

type rootOptions struct {
	configFile string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Search the Scaffold Stellar Plus documentation",
		Long: `Search the documentation from the terminal. Searches and result clicks
are recorded in the same analytics store the MCP server uses.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", config.DefaultConfigFile, "config file path")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")

	cmd.AddCommand(
		newSearchCmd(opts),
		newFullTextCmd(opts),
		newShowCmd(opts),
		newSuggestCmd(),
		newPopularCmd(),
		newRecentCmd(opts),
		newClickCmd(opts),
		newTimingCmd(opts),
		newAnalyticsCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

// openApp loads config and opens the search app. The caller closes it.
func (o *rootOptions) openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open search: %w", err)
	}
	return a, nil
}
