package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and name exactly what is
// wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoIndexURL is returned when no index (listing) URL is specified.
	ErrNoIndexURL = errors.New("no index url specified: provide a listing page url")

	// ErrNoSelector is returned when no link selector is specified.
	// Without a selector the index cannot be resolved into instance pages.
	ErrNoSelector = errors.New("no selector specified: provide a link selector")

	// ErrInvalidSelectorMode is returned for a selector mode outside the
	// enumerated set ("path" or "style").
	ErrInvalidSelectorMode = errors.New("invalid selector mode: must be \"path\" or \"style\"")

	// ErrInvalidFetchDelay is returned when the politeness interval is
	// negative. Use 0 to disable the delay between requests.
	ErrInvalidFetchDelay = errors.New("invalid fetch delay: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would cause immediate failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
