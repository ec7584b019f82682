package cli

import (
	"github.com/edna-platform/ednavalidate/internal/cli/shared"
)

// Exit codes for the ednavalidate CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates the submission is acceptable
	ExitSuccess = shared.ExitSuccess

	// ExitRejected indicates the report contains fatal or error issues
	ExitRejected = shared.ExitRejected

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitIOFailure indicates files could not be read or written (retryable)
	ExitIOFailure = shared.ExitIOFailure
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

// IsExitError reports whether err only carries an exit code (re-exported from shared).
func IsExitError(err error) bool {
	return shared.IsExitError(err)
}
