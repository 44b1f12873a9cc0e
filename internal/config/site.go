package config

import (
	"maps"
	"strings"
)

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per site without CLI flags.
type SiteConfig struct {
	// Selector extracts instance links from the site's index page.
	// Overrides the global selector when set.
	Selector string `yaml:"selector,omitempty"`

	// Mode is the selector dialect for this site: "path" or "style".
	Mode string `yaml:"mode,omitempty"`

	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// DelaySeconds overrides the global politeness interval for this
	// site, in whole seconds. Zero means use the global setting.
	DelaySeconds int `yaml:"delay_seconds,omitempty"`

	// NextParam is the query parameter that advances the index chain
	// (e.g. "page" for ?page=2). When set, index pagination is derived
	// from it instead of requiring a continuation in code.
	NextParam string `yaml:"next_param,omitempty"`

	// MaxPages caps the index chain driven by NextParam.
	// Zero means use DefaultMaxPages.
	MaxPages int `yaml:"max_pages,omitempty"`
}

// File represents the structure of the .webharvest configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the bare host (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
// Host lookup is case-insensitive, matching DNS semantics.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults. The Headers map is shared across every
	// lookup, so clone it before merging site-specific entries into it.
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[strings.ToLower(host)]; ok {
		if siteConfig.Selector != "" {
			result.Selector = siteConfig.Selector
		}
		if siteConfig.Mode != "" {
			result.Mode = siteConfig.Mode
		}
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if siteConfig.DelaySeconds != 0 {
			result.DelaySeconds = siteConfig.DelaySeconds
		}
		if siteConfig.NextParam != "" {
			result.NextParam = siteConfig.NextParam
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
	}

	return result
}
