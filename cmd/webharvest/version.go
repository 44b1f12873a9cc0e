package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release build time. Empty in a plain go build,
// where the binary's embedded build info fills in instead.
var (
	version = ""
	commit  = ""
	date    = ""
)

// readBuildSetting returns one key from the embedded build info, or ""
// when the info or the key is unavailable.
func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// getVersion returns the release version, falling back to the module
// version the toolchain recorded.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit returns the short VCS revision, marking builds made from a
// dirty working tree.
func getCommit() string {
	if commit != "" {
		return commit
	}
	rev := readBuildSetting("vcs.revision")
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if readBuildSetting("vcs.modified") == "true" {
		rev += "+dirty"
	}
	return rev
}

// getDate returns the timestamp of the commit the binary was built from.
func getDate() string {
	if date != "" {
		return date
	}
	if t := readBuildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of webharvest.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "webharvest version %s (commit: %s, built: %s)\n",
				getVersion(), getCommit(), getDate())
		},
	}
}
