package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/edna-platform/ednavalidate/internal/config"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the local or global config.

By default, sets the value in the local config file (see --config).
Use --global to set it in ~/.ednavalidate/config.json instead.

The value is parsed according to the key's type and validated against the
key's limits before anything is written.`,
	Example: `  # Escalate cross-reference warnings to errors
  ednavalidate config set strict true

  # Report up to 50 type errors per file
  ednavalidate config set max_issues_per_kind 50

  # Emit JSON reports by default for every project
  ednavalidate config set output_format json --global`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all available configuration keys",
	Long:  `Display all valid configuration keys with their types, defaults and descriptions.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	out := cmd.OutOrStdout()

	if _, err := cfgpkg.GetKeySchema(key); err != nil {
		return formatUnknownKeyError(err)
	}

	filePath, scope, err := resolveConfigPath(cmd)
	if err != nil {
		return err
	}

	if err := cfgpkg.SetConfigValue(filePath, key, value); err != nil {
		return clierrors.NewArgumentError(
			fmt.Sprintf("cannot set %s: %v", key, err),
			"run 'ednavalidate config keys' to see accepted values",
		)
	}

	fmt.Fprintf(out, "Set %s = %s in %s config (%s)\n", key, value, scope, filePath)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Available configuration keys:")
	fmt.Fprintln(out)

	for _, key := range cfgpkg.SortedKeys() {
		schema := cfgpkg.KnownKeys[key]
		typeInfo := schema.Type.String()
		if schema.Type == cfgpkg.TypeEnum {
			typeInfo = fmt.Sprintf("enum (%s)", strings.Join(schema.AllowedValues, ", "))
		}
		fmt.Fprintf(out, "  %-24s %s, default %v\n", key, typeInfo, schema.Default)
		fmt.Fprintf(out, "    %s\n", schema.Description)
		fmt.Fprintln(out)
	}

	return nil
}

func resolveConfigPath(cmd *cobra.Command) (filePath, scope string, err error) {
	useGlobal, _ := cmd.Flags().GetBool("global")
	if useGlobal {
		path, err := cfgpkg.GlobalConfigWritePath()
		if err != nil {
			return "", "", clierrors.NewConfigError(err.Error(), "set HOME or write to the local config instead")
		}
		return path, "global", nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = cfgpkg.DefaultLocalConfigPath
	}
	return configPath, "local", nil
}

func formatUnknownKeyError(err error) error {
	return clierrors.NewArgumentErrorWithUsage(
		err.Error(),
		"ednavalidate config set <key> <value>",
		"valid keys: "+strings.Join(cfgpkg.SortedKeys(), ", "),
	)
}
