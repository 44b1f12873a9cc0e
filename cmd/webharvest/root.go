package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webharvest",
		Short: "Polite web crawler for listing pages",
		Long: `Webharvest crawls the pages linked from a listing (index) page.

It extracts instance links with a selector, fetches each page once with a
politeness delay, and keeps every fetched body in a disk stash so repeat
runs cost nothing. Fetch history is recorded for later inspection.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewTargetsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
