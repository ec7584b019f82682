package config

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
	cfgpkg "github.com/edna-platform/ednavalidate/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ednavalidate configuration",
	Long: `Manage ednavalidate configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (EDNAVALIDATE_*)
  3. Local config (.ednavalidate/config.json or .toml, see --config)
  4. Global config (~/.ednavalidate/config.json or config.toml)
  5. Built-in defaults`,
	Example: `  # Show current configuration
  ednavalidate config show

  # Report cross-reference warnings as errors in this project
  ednavalidate config set strict true

  # List all keys
  ednavalidate config keys`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current effective configuration",
	Long: `Display the current effective configuration values.

Shows the merged result of defaults, global config, local config and
environment variables. Use --json to switch from YAML to JSON.`,
	Example: `  # Show configuration in YAML format (default)
  ednavalidate config show

  # Show configuration in JSON format
  ednavalidate config show --json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")

	configSetCmd.Flags().Bool("global", false, "Set in the global config (~/.ednavalidate) instead of the local one")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	useJSON, _ := cmd.Flags().GetBool("json")
	cfg, configPath, err := shared.LoadConfig(cmd)
	if err != nil {
		return err
	}
	configMap := cfg.Map()

	globalPath := cfgpkg.GlobalConfigPath()
	if globalPath == "" {
		globalPath = "(none)"
	}
	fmt.Fprintf(out, "# Configuration Sources\n")
	fmt.Fprintf(out, "# Global config: %s\n", globalPath)
	fmt.Fprintf(out, "# Local config:  %s\n", configPath)
	fmt.Fprintf(out, "# Environment:   %s*\n", cfgpkg.EnvPrefix)
	fmt.Fprintf(out, "\n")

	if useJSON {
		data, err := json.MarshalIndent(configMap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := yaml.Marshal(configMap)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}
