// Package log provides logging with automatic sanitization of sensitive
// request data, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic masking of credentials (cookies, auth headers, tokens)
//   - Truncation of oversized attribute values such as page bodies
//   - Configurable log levels with verbose mode support
//
// Crawl configuration files may carry per-site cookies and headers, and
// debug logging happily prints whatever it is handed. The SanitizeHandler
// makes sure neither credentials nor multi-megabyte HTML bodies end up
// in log output that may be shared or stored.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // Masked
//	    "url", "http://example.com/list",
//	)
package log
