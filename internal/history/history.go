// Package history records validation runs so that an upload operator can see
// when a submission last passed or failed and why.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edna-platform/ednavalidate/internal/fsutil"
	"github.com/edna-platform/ednavalidate/internal/report"
)

const (
	// HistoryFileName is the name of the history file.
	HistoryFileName = "history.yaml"
	// BackupSuffix is the suffix for backup files when corruption is detected.
	BackupSuffix = ".backup"
)

// Verdicts recorded for a run.
const (
	VerdictAcceptable = "acceptable"
	VerdictRejected   = "rejected"
	// VerdictIOFailure marks runs that could not read the submission; the
	// same files may pass on a later run.
	VerdictIOFailure = "io_failure"
)

// HistoryEntry records one validation run.
type HistoryEntry struct {
	// ID is a unique identifier in adjective_noun_YYYYMMDD_HHMMSS format.
	ID        string    `yaml:"id"`
	Timestamp time.Time `yaml:"timestamp"`
	Directory string    `yaml:"directory"`
	Verdict   string    `yaml:"verdict"`
	Fatal     int       `yaml:"fatal"`
	Error     int       `yaml:"error"`
	Warning   int       `yaml:"warning"`
	Strict    bool      `yaml:"strict,omitempty"`
	ExitCode  int       `yaml:"exit_code"`
	// Duration is the run time in Go duration format (e.g., "12.5ms").
	Duration string `yaml:"duration"`
}

// HistoryFile represents the YAML file containing all history entries.
type HistoryFile struct {
	// Entries is ordered oldest first.
	Entries []HistoryEntry `yaml:"entries"`
}

// NewEntry builds the entry for a finished run.
func NewEntry(dir string, rep *report.Report, strict bool, exitCode int, duration time.Duration) HistoryEntry {
	c := rep.Counts()
	verdict := VerdictAcceptable
	switch {
	case rep.HasIOFailure():
		verdict = VerdictIOFailure
	case !rep.Acceptable():
		verdict = VerdictRejected
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return HistoryEntry{
		Timestamp: time.Now(),
		Directory: dir,
		Verdict:   verdict,
		Fatal:     c.Fatal,
		Error:     c.Error,
		Warning:   c.Warning,
		Strict:    strict,
		ExitCode:  exitCode,
		Duration:  duration.Round(time.Microsecond).String(),
	}
}

// DefaultStateDir returns the directory holding the history file.
// Location: ~/.ednavalidate/state
func DefaultStateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ednavalidate", "state"), nil
}

// LoadHistory loads the history file from the given state directory.
// Returns empty history if file doesn't exist.
// Handles corrupted files by backing them up and creating a fresh history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	historyPath := filepath.Join(stateDir, HistoryFileName)

	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{Entries: []HistoryEntry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		if backupErr := backupCorruptedFile(historyPath); backupErr != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", backupErr)
		}
		return &HistoryFile{Entries: []HistoryEntry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []HistoryEntry{}
	}

	return &history, nil
}

// backupCorruptedFile renames a corrupted file with a .backup suffix.
func backupCorruptedFile(path string) error {
	backupPath := path + BackupSuffix
	if err := os.Rename(path, backupPath); err != nil {
		return fmt.Errorf("renaming corrupted file to backup: %w", err)
	}
	return nil
}

// SaveHistory saves the history file to the given state directory using atomic writes.
// Creates parent directories if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(stateDir, HistoryFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// ClearHistory removes all entries from the history file.
func ClearHistory(stateDir string) error {
	return SaveHistory(stateDir, &HistoryFile{Entries: []HistoryEntry{}})
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (h *HistoryFile) Recent(limit int) []HistoryEntry {
	n := len(h.Entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(h.Entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}
