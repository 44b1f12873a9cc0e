// Package main provides the entry point for the webharvest CLI.
//
// Webharvest is a polite web-crawling scaffold. It resolves a listing
// page into instance links via a selector, fetches each instance page
// through a disk stash, and reports on the crawl.
//
// Usage:
//
//	webharvest scrape --selector "//ul/li/a" http://example.com/list
//	webharvest targets --selector "//ul/li/a" http://example.com/list
//
// See --help for all available options.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the result to a process exit code.
func run() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "webharvest:", err)
		return 1
	}
	return 0
}
