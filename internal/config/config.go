// Package config loads ednavalidate configuration from defaults, a global
// file, a local file and environment variables, in that order of priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "EDNAVALIDATE_"

// DefaultLocalConfigPath is the project-local config file.
const DefaultLocalConfigPath = ".ednavalidate/config.json"

// Configuration represents the ednavalidate configuration
type Configuration struct {
	Strict           bool          `koanf:"strict"`
	MaxIssuesPerKind int           `koanf:"max_issues_per_kind" validate:"min=1,max=10000"`
	MaxLineBytes     int           `koanf:"max_line_bytes" validate:"min=4096,max=1073741824"`
	MaxRetries       int           `koanf:"max_retries" validate:"min=0,max=10"`
	MaxHistory       int           `koanf:"max_history_entries" validate:"min=0,max=100000"` // 0 disables run history
	OutputFormat     string        `koanf:"output_format" validate:"oneof=text json yaml msgpack"`
	WatchDebounce    time.Duration `koanf:"watch_debounce" validate:"min=50ms"`
	ShowProgress     bool          `koanf:"show_progress"` // Show a spinner on terminals
	Notify           bool          `koanf:"notify"`        // Desktop notification on verdict change in watch mode
	Debug            bool          `koanf:"debug"`
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying default %s: %w", key, err)
		}
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	// Environment variables have the highest priority.
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFile merges a JSON or TOML file into k. A missing file is not an error.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return k.Load(file.Provider(path), parserFor(path))
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOMLParser()
	}
	return json.Parser()
}

// GlobalConfigPath returns the first existing global config file, or "".
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.json", "config.toml"} {
		p := filepath.Join(homeDir, ".ednavalidate", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// GlobalConfigWritePath returns the global config file to write: the
// existing one if present, otherwise ~/.ednavalidate/config.json.
func GlobalConfigWritePath() (string, error) {
	if p := GlobalConfigPath(); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ednavalidate", "config.json"), nil
}

// envTransform converts environment variable names to config keys
// Example: EDNAVALIDATE_MAX_ISSUES_PER_KIND -> max_issues_per_kind
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Map returns the configuration as key/value pairs keyed like the config
// file, with durations rendered as strings.
func (c *Configuration) Map() map[string]interface{} {
	return map[string]interface{}{
		"strict":              c.Strict,
		"max_issues_per_kind": c.MaxIssuesPerKind,
		"max_line_bytes":      c.MaxLineBytes,
		"max_retries":         c.MaxRetries,
		"max_history_entries": c.MaxHistory,
		"output_format":       c.OutputFormat,
		"watch_debounce":      c.WatchDebounce.String(),
		"show_progress":       c.ShowProgress,
		"notify":              c.Notify,
		"debug":               c.Debug,
	}
}
