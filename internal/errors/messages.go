package errors

import (
	"fmt"
	"strings"
)

// MissingProjectDir is returned when validate is run without a directory.
func MissingProjectDir() *CLIError {
	return NewArgumentErrorWithUsage(
		"no submission directory given",
		"ednavalidate validate <dir>",
		"pass the project directory or its raw_data/ directory",
	)
}

// DirectoryNotFound is returned when the submission directory is absent.
func DirectoryNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("directory not found: %s", path),
		"check the path for typos",
		"run from the project root or pass an absolute path",
	)
}

// NotADirectory is returned when the submission path is a regular file.
func NotADirectory(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("not a directory: %s", path),
		"pass the directory containing metadata.txt, not a single file",
	)
}

// InvalidOutputFormat is returned for an unrecognized --format value.
func InvalidOutputFormat(value string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid output format %q", value),
		"use one of: "+strings.Join(valid, ", "),
	)
}

// UnknownArtifact is returned when schema is asked for a file it doesn't know.
func UnknownArtifact(name string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown submission file %q", name),
		"ednavalidate schema [role|filename]",
		"use one of: "+strings.Join(valid, ", "),
	)
}

// InvalidFlagCombination is returned for flags that cannot be used together.
func InvalidFlagCombination(flags, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination %s: %s", flags, reason),
		"run with --help to see valid flags",
	)
}

// ConfigFileNotFound is returned when an explicit config file is missing.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"create it with 'ednavalidate config set <key> <value>'",
	)
}

// ConfigParseError is returned when configuration cannot be loaded.
func ConfigParseError(path string, err error) *CLIError {
	e := NewConfigError(
		fmt.Sprintf("failed to load config %s: %v", path, err),
		"check the file is valid JSON or TOML",
		"run 'ednavalidate config show' to see effective values",
	)
	e.Err = err
	return e
}

// WatchUnavailable is returned when the file watcher cannot start.
func WatchUnavailable(dir string, err error) *CLIError {
	e := Wrap(err, Prerequisite,
		"on Linux, raise fs.inotify.max_user_watches or fs.inotify.max_user_instances",
		"run without --watch and re-validate manually",
	)
	e.Message = fmt.Sprintf("cannot watch %s: %v", dir, err)
	return e
}

// FileNotWritable is returned when the report cannot be written.
func FileNotWritable(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("cannot write %s", path),
		"check the directory exists and is writable",
	)
}
