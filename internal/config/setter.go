package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/edna-platform/ednavalidate/internal/fsutil"
)

// SetConfigValue sets a configuration value in a JSON or TOML config file.
// Validates the key and value against the schema before writing.
// Creates the file if it doesn't exist.
func SetConfigValue(filePath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return fmt.Errorf("validating value: %w", err)
	}

	parser := parserFor(filePath)
	k := koanf.New(".")
	if _, err := os.Stat(filePath); err == nil {
		if err := k.Load(file.Provider(filePath), parser); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := k.Set(key, parsed.Parsed); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := checkMerged(k); err != nil {
		return err
	}

	content, err := k.Marshal(parser)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filePath, content, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// checkMerged validates the file's values layered over defaults so that
// range limits apply before anything is written.
func checkMerged(fileValues *koanf.Koanf) error {
	k := koanf.New(".")
	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}
	if err := k.Merge(fileValues); err != nil {
		return err
	}
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
