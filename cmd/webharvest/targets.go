package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/fetch"
	"github.com/nao1215/webharvest/internal/log"
	"github.com/nao1215/webharvest/internal/markup"
	"github.com/nao1215/webharvest/internal/resolve"
	"github.com/spf13/cobra"
)

// NewTargetsCmd creates the targets command.
func NewTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets [index-url]",
		Short: "List the instance links a listing page resolves to",
		Long: `Targets resolves a listing (index) page with the given selector and
prints the discovered instance links in document order, without fetching
any of them. Use it to verify a selector before running a full scrape.

Examples:
  # Preview the links a selector matches
  webharvest targets --selector "//ul/li/a" http://example.com/list

  # CSS selector mode
  webharvest targets --selector "ul.listing a" --mode style http://example.com/list`,
		Args: cobra.ExactArgs(1),
		RunE: runTargetsCmd,
	}

	cmd.Flags().StringP("selector", "s", "",
		"Link selector for the index page (required unless set in the config file)")
	cmd.Flags().StringP("mode", "m", "",
		`Selector dialect: "path" (structural, default) or "style" (CSS)`)
	cmd.Flags().DurationP("delay", "d", 0,
		"Politeness interval before fetching the index (default none for a single page)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for the index request")
	cmd.Flags().String("next-param", "",
		"Query parameter that advances the index chain (e.g. \"page\")")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum index pages to follow when --next-param is set")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webharvest in current or home directory)")

	return cmd
}

// runTargetsCmd executes the targets command.
func runTargetsCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.IndexURL = args[0]

	var err error
	cfg.Selector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return err
	}
	cfg.SelectorMode, err = cmd.Flags().GetString("mode")
	if err != nil {
		return err
	}
	cfg.FetchDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return err
	}
	applySiteConfig(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	site := cfg.SiteConfigs.GetSiteConfig(indexHost(cfg.IndexURL))

	fetcher := fetch.New(newTransport(cfg, site), nil,
		fetch.WithDelay(cfg.FetchDelay),
		fetch.WithLogger(logger),
	)

	mode, err := markup.ParseMode(cfg.SelectorMode)
	if err != nil {
		return err
	}

	chain := resolve.NewChainResolver(fetcher)
	index := resolve.NewIndexResolver(chain, markup.NewQuerier(),
		resolve.WithIndexLogger(logger))

	targets, err := index.ResolveIndex(cmd.Context(), cfg.IndexURL, cfg.Selector,
		mode, false, indexPagination(cmd, site))
	if err != nil {
		return err
	}

	for _, target := range targets {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", target.Position, target.URL)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d instance link(s)\n", len(targets))

	return nil
}
