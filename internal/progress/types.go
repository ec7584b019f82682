// Package progress shows a spinner on stderr while a validation run works
// through its stages, and a one-line outcome when it finishes.
package progress

import apperrors "github.com/edna-platform/ednavalidate/internal/errors"

// StageInfo describes one stage of a validation run for display.
type StageInfo struct {
	// Name is the human-readable stage name (e.g., "parsing files")
	Name string
	// Number is the current stage number (1-based index)
	Number int
	// TotalStages is the total number of stages in the run
	TotalStages int
}

// Validate checks that all StageInfo fields meet validation requirements
func (s StageInfo) Validate() error {
	if s.Name == "" {
		return apperrors.NewArgumentError("stage name cannot be empty")
	}
	if s.Number <= 0 {
		return apperrors.NewArgumentError("stage number must be > 0")
	}
	if s.TotalStages <= 0 {
		return apperrors.NewArgumentError("total stages must be > 0")
	}
	if s.Number > s.TotalStages {
		return apperrors.NewArgumentError("stage number cannot exceed total stages")
	}
	return nil
}

// TerminalCapabilities encapsulates detected terminal features
type TerminalCapabilities struct {
	// IsTTY indicates whether stderr is a terminal (vs pipe/redirect)
	IsTTY bool
	// SupportsColor indicates whether terminal supports ANSI color codes
	SupportsColor bool
	// SupportsUnicode indicates whether terminal supports Unicode characters
	SupportsUnicode bool
	// Width is the terminal width in columns (0 if unknown/pipe)
	Width int
}

// ProgressSymbols defines the character set for visual indicators
type ProgressSymbols struct {
	// Checkmark is the success indicator ("✓" or "[OK]")
	Checkmark string
	// Failure is the failure indicator ("✗" or "[FAIL]")
	Failure string
	// SpinnerSet is the index into spinner.CharSets
	SpinnerSet int
}
