// Package cli provides Cobra-based CLI commands for ednavalidate.
// It defines the validate and schema commands here, and registers
// configuration and utility commands from subpackages.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/edna-platform/ednavalidate/internal/cli/config"
	"github.com/edna-platform/ednavalidate/internal/cli/shared"
	"github.com/edna-platform/ednavalidate/internal/cli/util"
	cfgpkg "github.com/edna-platform/ednavalidate/internal/config"
)

// Command group IDs for organizing help output (re-exported from shared)
const (
	GroupValidation    = shared.GroupValidation
	GroupConfiguration = shared.GroupConfiguration
)

var rootCmd = &cobra.Command{
	Use:   "ednavalidate",
	Short: "eDNA submission validator",
	Long: `ednavalidate checks an eDNA project submission before it is ingested.

A submission is five files: metadata.txt, otu_table.txt, tax_table.txt,
taxa_metadata.txt and sequences.fasta. Each file is checked against its
format, then identifiers are cross-checked between files. The result is a
single report listing every problem found.`,
	Example: `  # Validate a project directory
  ednavalidate validate ./my-project

  # Machine-readable report written atomically for the upload service
  ednavalidate validate ./my-project --format json --output report.json

  # Re-validate whenever a file changes
  ednavalidate validate ./my-project --watch

  # Show the expected columns of the OTU table
  ednavalidate schema otu_table.txt`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupValidation, Title: "Validation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", cfgpkg.DefaultLocalConfigPath, "Path to config file (.json or .toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)

	// Register commands from subpackages
	config.Register(rootCmd)
	util.Register(rootCmd)
}
