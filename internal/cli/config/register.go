// Package config provides CLI commands for ednavalidate configuration management.
// Includes: config show, config set, config keys
package config

import (
	"github.com/spf13/cobra"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
)

// Register adds all configuration commands to the root command.
// This function is called from the root CLI package during initialization.
func Register(rootCmd *cobra.Command) {
	configCmd.GroupID = shared.GroupConfiguration
	rootCmd.AddCommand(configCmd)
}
