// Package config holds all configuration for webharvest.
//
// Configuration is populated from CLI flags and an optional YAML file,
// validated once up front, and passed through the application via
// dependency injection rather than global state.
//
// The YAML file (.webharvest in the current or home directory) carries
// per-site settings: selector, selector mode, request headers, and a
// declarative pagination rule (query parameter plus page cap) that the
// CLI turns into a pagination continuation.
package config
