package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/webharvest.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new webharvest configuration file",
		Long: `Initialize creates a new .webharvest configuration file in the current directory.

The generated file includes:
- Default settings for selector mode and politeness delay
- Commented examples for site-specific configurations
- Documentation for all available options

Examples:
  # Create .webharvest in current directory
  webharvest init

  # Create the shared config in the XDG config directory
  webharvest init --global

  # Create config file at a specific path
  webharvest init -o myconfig.yaml

  # Force overwrite existing file
  webharvest init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("global", "g", false,
		"Write the configuration to the XDG config directory instead of the current directory")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := initOutputPath(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/webharvest.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure site-specific settings such as:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Link selectors and selector mode")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Authentication cookies and headers")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Declarative index pagination")

	return nil
}

// initOutputPath resolves where the template is written. --global
// targets the XDG config directory, one of the default search
// locations, and cannot be combined with an explicit -o path.
func initOutputPath(cmd *cobra.Command) (string, error) {
	global, err := cmd.Flags().GetBool("global")
	if err != nil {
		return "", err
	}
	if global {
		if cmd.Flags().Changed("output") {
			return "", fmt.Errorf("cannot combine --global with --output")
		}
		return filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile), nil
	}
	return cmd.Flags().GetString("output")
}
