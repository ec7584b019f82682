package shared

import (
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/edna-platform/ednavalidate/internal/config"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
)

// LoadConfig loads configuration using the --config flag. The default local
// config may be absent; a path given explicitly must exist.
func LoadConfig(cmd *cobra.Command) (*cfgpkg.Configuration, string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, configPath, clierrors.ConfigFileNotFound(configPath)
		}
	}

	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return nil, configPath, clierrors.ConfigParseError(configPath, err)
	}
	return cfg, configPath, nil
}
