package stash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotStashed is returned by Read when no entry exists for the URL's key.
// Callers are expected to check Has before calling Read; this error
// indicates a protocol violation or an entry removed out from under us.
var ErrNotStashed = errors.New("no stashed entry for url")

// keyStrip matches every character that is not kept in a stash key.
var keyStrip = regexp.MustCompile(`[^A-Za-z0-9-]`)

// Key derives the stash key for a URL by stripping all characters
// outside [A-Za-z0-9-].
//
// The mapping is deliberately lossy: "http://x/a?b" and "httpxab" share
// a key. This matches the stash contract, where key collisions are an
// accepted ambiguity rather than a bug.
func Key(rawURL string) string {
	return keyStrip.ReplaceAllString(rawURL, "")
}

// Stash is a content-addressed persistent store of fetched page bodies.
// One file per key, stored under a configurable root directory.
type Stash struct {
	// root is the directory holding one file per stash key.
	root string
}

// New creates a Stash rooted at dir, creating the directory (including
// parents) if it does not exist. Directory creation happens once, here,
// so later operations can assume the root is present.
func New(dir string) (*Stash, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create stash directory: %w", err)
	}
	return &Stash{root: dir}, nil
}

// Dir returns the stash root directory.
func (s *Stash) Dir() string {
	return s.root
}

// Has reports whether an entry exists for the URL's key.
func (s *Stash) Has(rawURL string) bool {
	_, err := os.Stat(s.path(rawURL))
	return err == nil
}

// Read returns the stored body for the URL's key.
// Returns ErrNotStashed when no entry exists; callers must check Has
// first rather than relying on Read to fail soft.
func (s *Stash) Read(rawURL string) (string, error) {
	data, err := os.ReadFile(s.path(rawURL))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotStashed, rawURL)
		}
		return "", fmt.Errorf("failed to read stash entry: %w", err)
	}
	return string(data), nil
}

// Write persists body under the URL's key, overwriting any existing entry.
// The body is converted to valid UTF-8 first: invalid or undefined byte
// sequences are replaced with U+FFFD so every stored file is readable text.
//
// I/O failures (disk full, permissions) propagate to the caller; they
// indicate environment misconfiguration, not a recoverable fetch state.
func (s *Stash) Write(rawURL, body string) error {
	clean, _, err := transform.String(unicode.UTF8.NewDecoder(), body)
	if err != nil {
		return fmt.Errorf("failed to sanitize body for stash: %w", err)
	}
	if err := os.WriteFile(s.path(rawURL), []byte(clean), 0600); err != nil {
		return fmt.Errorf("failed to write stash entry: %w", err)
	}
	return nil
}

// path returns the on-disk path for the URL's key.
func (s *Stash) path(rawURL string) string {
	return filepath.Join(s.root, Key(rawURL))
}
