package main

import (
	"fmt"
	"time"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/journal"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command inspects the fetch history recorded by past crawls.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded fetch history",
		Long: `History displays fetch records from the journal database.

Every crawl records its fetches (stash hits included) with status,
size, body hash, and timing. Use this command to see what recent
crawls actually did.

Examples:
  # Show the 20 most recent fetches
  webharvest history

  # Show more entries
  webharvest history --limit 100

  # Aggregate the last 24 hours
  webharvest history --since 24h`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Number of recent fetch records to show")
	cmd.Flags().DurationP("since", "S", 0,
		"Aggregate fetches within this window instead of listing records (e.g. 24h)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts := journal.DefaultOptions()
	opts.CreateIfNotExists = false

	j, err := journal.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no fetch history recorded yet: %w", err)
	}
	defer j.Close()

	window, err := cmd.Flags().GetDuration("since")
	if err != nil {
		return err
	}
	if window > 0 {
		return printTotals(cmd, j, window)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return printEntries(cmd, j, limit)
}

// printEntries lists recent fetch records, newest first.
func printEntries(cmd *cobra.Command, j *journal.Journal, limit int) error {
	entries, err := j.RecentFetches(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No fetch records found.")
		return nil
	}

	for _, e := range entries {
		source := "net"
		switch {
		case e.CacheHit:
			source = "stash"
		case e.Recovered:
			source = "recovered"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %3d  %8d B  %s\n",
			e.FetchedAt.Format("2006-01-02 15:04:05"),
			source,
			e.StatusCode,
			e.Bytes,
			e.URL,
		)
	}

	return nil
}

// printTotals aggregates fetches inside the window.
func printTotals(cmd *cobra.Command, j *journal.Journal, window time.Duration) error {
	totals, err := j.SummarizeSince(cmd.Context(), window)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Fetches in the last %s:\n\n", window)
	fmt.Fprintf(cmd.OutOrStdout(), "  TOTAL:     %d\n", totals.Fetches)
	fmt.Fprintf(cmd.OutOrStdout(), "  NETWORK:   %d\n", totals.NetworkFetches)
	fmt.Fprintf(cmd.OutOrStdout(), "  CACHED:    %d\n", totals.CacheHits)
	fmt.Fprintf(cmd.OutOrStdout(), "  RECOVERED: %d\n", totals.Recovered)
	fmt.Fprintf(cmd.OutOrStdout(), "  BYTES:     %d\n", totals.Bytes)

	return nil
}
