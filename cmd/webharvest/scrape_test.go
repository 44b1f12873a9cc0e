package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/webharvest/internal/markup"
)

// TestIndexHost tests host extraction for site config lookup.
func TestIndexHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain host", "http://example.com/list", "example.com"},
		{"host with port", "http://example.com:8080/list", "example.com"},
		{"unparseable input falls back to raw string", "://not-a-url", "://not-a-url"},
		{"bare path has no host", "just-a-string", "just-a-string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := indexHost(tt.url); got != tt.want {
				t.Errorf("indexHost(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestPageTitle tests title extraction for the progress line.
func TestPageTitle(t *testing.T) {
	t.Parallel()

	querier := markup.NewQuerier()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"document with title", "<html><head><title>Hello</title></head><body></body></html>", "Hello"},
		{"title with surrounding whitespace", "<html><head><title>  Hi \n</title></head></html>", "Hi"},
		{"document without title", "<html><body><p>no title</p></body></html>", "(untitled)"},
		{"empty content", "", "(empty)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := pageTitle(querier, tt.content); got != tt.want {
				t.Errorf("pageTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

// TestNewScrapeCmd tests the command surface.
func TestNewScrapeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScrapeCmd()

	t.Run("has next-param flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("next-param") == nil {
			t.Fatal("expected next-param flag")
		}
	})

	t.Run("documents pagination scope", func(t *testing.T) {
		t.Parallel()
		// --next-param drives the index chain; instance chains take a
		// continuation through the library. The help must say so.
		if !strings.Contains(cmd.Long, "index chain only") {
			t.Errorf("expected pagination scope in help text, got:\n%s", cmd.Long)
		}
	})
}

// TestScrapeCmd tests the scrape command end to end against a local server.
func TestScrapeCmd(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<html><body><ul>
			<li><a href="%s/a">A</a></li>
			<li><a href="%s/b">B</a></li>
		</ul></body></html>`, srvURL, srvURL)
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><head><title>Page A</title></head><body>aaa</body></html>")
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><head><title>Page B</title></head><body>bbb</body></html>")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	reportPath := filepath.Join(t.TempDir(), "out", "report.json")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"scrape",
		"--selector", "//ul/li/a",
		"--delay", "0",
		"--no-journal",
		"--stash-dir", t.TempDir(),
		"--json",
		"-o", reportPath,
		srv.URL + "/list",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Progress lines show titles in index order
	output := out.String()
	if !strings.Contains(output, "[0] Page A") || !strings.Contains(output, "[1] Page B") {
		t.Errorf("expected per-page progress lines, got:\n%s", output)
	}

	// JSON report was written to the requested path
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	var parsed struct {
		Version string `json:"version"`
		Summary struct {
			IndexURL  string `json:"index_url"`
			Instances int    `json:"instances"`
			Fetches   int    `json:"fetches"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if parsed.Summary.Instances != 2 {
		t.Errorf("expected 2 instances, got %d", parsed.Summary.Instances)
	}
	// Index + 2 instances
	if parsed.Summary.Fetches != 3 {
		t.Errorf("expected 3 fetches, got %d", parsed.Summary.Fetches)
	}
	if parsed.Summary.IndexURL != srv.URL+"/list" {
		t.Errorf("unexpected index url: %q", parsed.Summary.IndexURL)
	}
}

// TestTargetsCmd tests the targets preview command.
func TestTargetsCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><ul>
			<li><a href="http://x/a">A</a></li>
			<li><a href="http://x/b">B</a></li>
			<li><a href="http://x/c">C</a></li>
		</ul></body></html>`)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"targets",
		"--selector", "//ul/li/a",
		srv.URL + "/list",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"[0] http://x/a",
		"[1] http://x/b",
		"[2] http://x/c",
		"3 instance link(s)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}
