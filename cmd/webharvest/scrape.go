package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/fetch"
	"github.com/nao1215/webharvest/internal/journal"
	"github.com/nao1215/webharvest/internal/log"
	"github.com/nao1215/webharvest/internal/markup"
	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/report"
	"github.com/nao1215/webharvest/internal/resolve"
	"github.com/nao1215/webharvest/internal/stash"
	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [index-url]",
		Short: "Crawl the pages linked from a listing page",
		Long: `Scrape resolves a listing (index) page into instance links with a
selector, fetches every instance page through the disk stash, and prints
a crawl summary.

Instance pages are stashed on disk, so a second run fetches nothing it
already has. The index page itself is refetched by default so new
listings are picked up; use --index-stash to cache it too.

--next-param paginates the index chain only. Following pagination
within an instance page (an article split across several URLs) takes a
continuation function and is available through the library API.

Examples:
  # Crawl a listing using a structural-path selector
  webharvest scrape --selector "//ul/li/a" http://example.com/list

  # Crawl using a CSS selector
  webharvest scrape --selector "ul.listing a" --mode style http://example.com/list

  # Paginated listing: ?page=2, ?page=3, ... up to 5 pages
  webharvest scrape --selector "//ul/li/a" --next-param page --max-pages 5 http://example.com/list

  # Disable the politeness delay (local or test servers only)
  webharvest scrape --selector "//ul/li/a" --delay 0 http://localhost:8080/list

  # Output JSON report to a file
  webharvest scrape --selector "//ul/li/a" --json -o report.json http://example.com/list`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	// Selector flags
	cmd.Flags().StringP("selector", "s", "",
		"Link selector for the index page (required unless set in the config file)")
	cmd.Flags().StringP("mode", "m", "",
		`Selector dialect: "path" (structural, default) or "style" (CSS)`)

	// Fetch behavior flags
	cmd.Flags().DurationP("delay", "d", config.DefaultFetchDelay,
		"Politeness interval between network requests (stash hits never wait)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")

	// Stash flags
	cmd.Flags().Bool("no-stash", false,
		"Disable the disk stash for instance pages")
	cmd.Flags().Bool("index-stash", false,
		"Also stash the index page (new listings will not be seen until the stash is cleared)")
	cmd.Flags().String("stash-dir", "",
		"Stash directory (default: XDG cache directory)")

	// Index pagination flags
	cmd.Flags().String("next-param", "",
		"Query parameter that advances the index chain (e.g. \"page\")")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum index pages to follow when --next-param is set")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webharvest in current or home directory)")

	// Journal flag
	cmd.Flags().Bool("no-journal", false,
		"Do not record fetch history in the journal database")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().Bool("markdown", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional config file, with site-specific settings merged in.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.IndexURL = args[0]

	var err error

	cfg.Selector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return nil, err
	}

	cfg.SelectorMode, err = cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}

	cfg.FetchDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	noStash, err := cmd.Flags().GetBool("no-stash")
	if err != nil {
		return nil, err
	}
	cfg.InstanceStash = !noStash

	cfg.IndexStash, err = cmd.Flags().GetBool("index-stash")
	if err != nil {
		return nil, err
	}

	stashDir, err := cmd.Flags().GetString("stash-dir")
	if err != nil {
		return nil, err
	}
	if stashDir != "" {
		cfg.StashDir = stashDir
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	noJournal, err := cmd.Flags().GetBool("no-journal")
	if err != nil {
		return nil, err
	}
	cfg.SaveJournal = !noJournal
	if cfg.SaveJournal {
		cfg.JournalDir = config.XDGDataDir()
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	applySiteConfig(cmd, cfg)

	return cfg, nil
}

// loadSiteConfigs loads the YAML config file into cfg.SiteConfigs.
// An explicitly specified path must exist; otherwise a missing file
// silently yields an empty configuration.
func loadSiteConfigs(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
		return nil
	}

	if explicitConfigPath {
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.SiteConfigs = &config.File{
		Sites: make(map[string]config.SiteConfig),
	}
	return nil
}

// applySiteConfig merges the index host's site configuration into cfg.
// CLI flags the user set explicitly win over the config file.
func applySiteConfig(cmd *cobra.Command, cfg *config.Config) {
	if cfg.SiteConfigs == nil {
		return
	}

	site := cfg.SiteConfigs.GetSiteConfig(indexHost(cfg.IndexURL))

	if cfg.Selector == "" && site.Selector != "" {
		cfg.Selector = site.Selector
	}
	if !cmd.Flags().Changed("mode") && site.Mode != "" {
		cfg.SelectorMode = site.Mode
	}
	if !cmd.Flags().Changed("delay") && site.DelaySeconds > 0 {
		cfg.FetchDelay = time.Duration(site.DelaySeconds) * time.Second
	}
}

// indexHost extracts the bare host from the index URL for site config
// lookup. Falls back to the raw string when parsing fails.
func indexHost(indexURL string) string {
	u, err := url.Parse(indexURL)
	if err != nil || u.Hostname() == "" {
		return indexURL
	}
	return u.Hostname()
}

// runScrape executes the crawl.
func runScrape(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"index", cfg.IndexURL,
		"mode", cfg.SelectorMode,
		"delay", cfg.FetchDelay,
		"instanceStash", cfg.InstanceStash,
	)

	site := cfg.SiteConfigs.GetSiteConfig(indexHost(cfg.IndexURL))

	// Open journal if fetch history is wanted
	var obs fetch.Observer
	recorder := fetch.NewRecorder()
	if cfg.SaveJournal {
		j, err := journal.Open(cfg.JournalDir, journal.Options{
			CreateIfNotExists: true,
			EnableWAL:         true,
			Logger:            logger,
		})
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer j.Close()
		obs = fetch.MultiObserver(recorder, j)
		logger.Info("journal opened", "dir", cfg.JournalDir)
	} else {
		obs = recorder
	}

	st, err := stash.New(cfg.StashDir)
	if err != nil {
		return fmt.Errorf("failed to open stash: %w", err)
	}
	logger.Debug("stash opened", "dir", st.Dir())

	fetcher := fetch.New(newTransport(cfg, site), st,
		fetch.WithDelay(cfg.FetchDelay),
		fetch.WithLogger(logger),
		fetch.WithObserver(obs),
	)

	mode, err := markup.ParseMode(cfg.SelectorMode)
	if err != nil {
		return err
	}

	chain := resolve.NewChainResolver(fetcher)
	index := resolve.NewIndexResolver(chain, markup.NewQuerier(),
		resolve.WithIndexLogger(logger))

	driver := resolve.NewDriver(chain, index, cfg.IndexURL, cfg.Selector,
		resolve.WithSelectorMode(mode),
		resolve.WithInstanceStash(cfg.InstanceStash),
		resolve.WithIndexStash(cfg.IndexStash),
		resolve.WithIndexPagination(indexPagination(cmd, site)),
		resolve.WithDriverLogger(logger),
	)

	started := time.Now()
	querier := markup.NewQuerier()

	pages, err := driver.Scrape(ctx, func(content, pageURL string, position int) (any, error) {
		title := pageTitle(querier, content)
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s  %s (%d bytes)\n",
			position, title, pageURL, len(content))
		return title, nil
	})
	if err != nil {
		return err
	}

	summary := model.NewCrawlSummary(cfg.IndexURL, len(pages), started, recorder.Records())

	return outputReport(cfg, summary)
}

// newTransport builds the HTTP transport with site headers applied.
func newTransport(cfg *config.Config, site config.SiteConfig) *fetch.HTTPTransport {
	opts := []fetch.HTTPOption{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(int(cfg.MaxBodySize)),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, fetch.WithUserAgent(cfg.UserAgent))
	}

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}
	if len(headers) > 0 {
		opts = append(opts, fetch.WithHeaders(headers))
	}

	return fetch.NewHTTPTransport(opts...)
}

// indexPagination builds the index continuation from the --next-param
// flag or the site's declarative pagination rule. Returns nil (meaning
// no pagination) when neither is configured.
func indexPagination(cmd *cobra.Command, site config.SiteConfig) resolve.NextPageFunc {
	param, err := cmd.Flags().GetString("next-param")
	if err != nil || param == "" {
		param = site.NextParam
	}
	if param == "" {
		return nil
	}

	maxPages, err := cmd.Flags().GetInt("max-pages")
	if err != nil || !cmd.Flags().Changed("max-pages") {
		if site.MaxPages > 0 {
			maxPages = site.MaxPages
		} else {
			maxPages = config.DefaultMaxPages
		}
	}

	return resolve.QueryPagination(param, maxPages)
}

// pageTitle extracts the document title, falling back to "(untitled)".
func pageTitle(querier *markup.Querier, content string) string {
	if content == "" {
		return "(empty)"
	}

	elements, err := querier.Query(content, "//title", markup.ModePath)
	if err != nil || len(elements) == 0 {
		return "(untitled)"
	}

	title := strings.TrimSpace(elements[0].Text)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// outputReport outputs the crawl summary in the requested format.
func outputReport(cfg *config.Config, summary *model.CrawlSummary) error {
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(summary)
	return err
}
