package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to be conservative toward the sites being
// crawled; everything can be overridden via CLI flags.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "webharvest"

	// DefaultFetchDelay is the politeness interval between network
	// requests. 30 seconds is deliberately slow: this tool targets
	// one-off archival crawls, not bulk scraping. Stash hits are
	// served without waiting, so repeat crawls stay fast.
	DefaultFetchDelay = 30 * time.Second

	// DefaultTimeout is the per-request timeout. Generous enough for
	// slow listing pages without hanging a crawl indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages caps declarative pagination from the config file.
	// This prevents runaway chains on sites that always emit a "next"
	// link. 0 means unlimited when pagination is provided in code.
	DefaultMaxPages = 100

	// DefaultSelectorMode is the selector dialect used when none is
	// specified: structural paths (e.g. //ul/li/a).
	DefaultSelectorMode = "path"

	// DefaultUserAgent identifies webharvest in HTTP requests.
	// A descriptive User-Agent lets site operators identify the
	// traffic in their logs.
	DefaultUserAgent = "webharvest/1.0 (+https://github.com/nao1215/webharvest)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for webharvest.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// IndexURL is the listing page whose links enumerate the pages to
	// crawl. Required.
	IndexURL string

	// Selector extracts instance links from the index page.
	// Its dialect is determined by SelectorMode. Required.
	Selector string

	// SelectorMode is the selector dialect: "path" for structural
	// paths or "style" for CSS selectors. Empty means "path".
	SelectorMode string

	// FetchDelay is the politeness interval before each network
	// request. Stash hits never wait. Zero disables the delay.
	FetchDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// InstanceStash enables disk caching of instance page bodies.
	// On by default: instance pages are the expensive part of a crawl
	// and rarely change mid-project.
	InstanceStash bool

	// IndexStash enables disk caching of the index page itself.
	// Off by default so new listings are picked up on every run.
	IndexStash bool

	// StashDir is the directory holding stashed page bodies.
	// Defaults to the XDG cache directory.
	StashDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webharvest in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile.
	SiteConfigs *File

	// JournalDir is the directory for the fetch-history database.
	// When empty, fetch history is not persisted.
	// Defaults to XDG data directory (~/.local/share/webharvest on Linux).
	JournalDir string

	// SaveJournal indicates whether to record fetch history.
	// Automatically set to true when JournalDir is configured.
	SaveJournal bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the crawl summary.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory
	// exhaustion. Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., the politeness
// delay and instance stashing). This also serves as documentation of
// what the defaults are.
func NewConfig() *Config {
	return &Config{
		SelectorMode:  DefaultSelectorMode,
		FetchDelay:    DefaultFetchDelay,
		Timeout:       DefaultTimeout,
		InstanceStash: true,
		IndexStash:    false,
		StashDir:      filepath.Join(XDGCacheDir(), "stash"),
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for webharvest.
// On Linux: ~/.local/share/webharvest
// On macOS: ~/Library/Application Support/webharvest
// On Windows: %LOCALAPPDATA%\webharvest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webharvest.
// On Linux: ~/.config/webharvest
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for webharvest.
// On Linux: ~/.cache/webharvest
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have an index page to enumerate instance pages from
	if c.IndexURL == "" {
		return ErrNoIndexURL
	}

	// Without a selector the index cannot be resolved into links
	if c.Selector == "" {
		return ErrNoSelector
	}

	if c.SelectorMode != "" && c.SelectorMode != "path" && c.SelectorMode != "style" {
		return ErrInvalidSelectorMode
	}

	// FetchDelay must be non-negative; zero disables the politeness wait
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// MaxBodySize must be non-negative; zero means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
