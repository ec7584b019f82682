// Package cli tests the validate command end to end against fixture projects.
// Related: internal/cli/validate.go
// Tags: cli, validate, exit-codes, output
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
	"github.com/edna-platform/ednavalidate/internal/history"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/testutil"
)

// newValidateTestCmd builds an isolated validate command with the root's
// persistent flags, so flag state never leaks between tests. HOME is
// isolated, so callers must not run in parallel.
func newValidateTestCmd(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := &cobra.Command{Use: "validate", Args: cobra.MaximumNArgs(1), RunE: runValidate}
	addValidateFlags(cmd)
	cmd.Flags().String("config", filepath.Join(t.TempDir(), "config.json"), "")
	cmd.Flags().Bool("debug", false, "")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-progress"))
	return cmd, &stdout, &stderr
}

func TestValidate_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		sub      testutil.Submission
		flags    []string
		wantCode int
		wantOut  string
	}{
		"acceptable submission": {
			sub:      testutil.ValidSubmission(),
			wantCode: ExitSuccess,
			wantOut:  "submission is acceptable",
		},
		"missing file is rejected": {
			sub:      testutil.ValidSubmission().Without("tax_table.txt"),
			wantCode: ExitRejected,
			wantOut:  "MissingArtifact",
		},
		"out of range latitude is rejected": {
			sub: testutil.ValidSubmission().With("metadata.txt", testutil.Lines(
				"SampleID\tLatitude\tLongitude\tSamplingTime",
				"S1\t95.0\t151.21\t2023-03-01",
				"S2\t-34.05\t151.15\t2023-03-02",
			)),
			wantCode: ExitRejected,
			wantOut:  "OutOfRange",
		},
		"unmetadated species is only a warning": {
			sub: testutil.ValidSubmission().With("taxa_metadata.txt", testutil.Lines(
				"Species\tRedListStatus\tInvasionStatus",
				"Abudefduf vaigiensis\tLC\tnative",
			)),
			wantCode: ExitSuccess,
			wantOut:  "UnmetadatedSpecies",
		},
		"strict flag escalates warnings": {
			sub: testutil.ValidSubmission().With("taxa_metadata.txt", testutil.Lines(
				"Species\tRedListStatus\tInvasionStatus",
				"Abudefduf vaigiensis\tLC\tnative",
			)),
			flags:    []string{"--strict"},
			wantCode: ExitRejected,
			wantOut:  "UnmetadatedSpecies",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := tt.sub.WriteTemp(t)
			cmd, stdout, _ := newValidateTestCmd(t, append([]string{dir}, tt.flags...)...)

			err := cmd.Execute()
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stdout.String(), tt.wantOut)
		})
	}
}

func TestValidate_ProjectRootWithRawData(t *testing.T) {
	root := t.TempDir()
	testutil.ValidSubmission().WriteDir(t, filepath.Join(root, "raw_data"))

	cmd, stdout, _ := newValidateTestCmd(t, root)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "submission is acceptable")
}

func TestValidate_ArgumentErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metadata.txt")
	require.NoError(t, os.WriteFile(file, []byte("SampleID\n"), 0o644))

	tests := map[string]struct {
		args         []string
		wantCategory clierrors.ErrorCategory
		wantMsg      string
	}{
		"no directory": {
			args:         nil,
			wantCategory: clierrors.Argument,
			wantMsg:      "no submission directory",
		},
		"directory does not exist": {
			args:         []string{filepath.Join(t.TempDir(), "absent")},
			wantCategory: clierrors.Prerequisite,
			wantMsg:      "directory not found",
		},
		"path is a file": {
			args:         []string{file},
			wantCategory: clierrors.Argument,
			wantMsg:      "not a directory",
		},
		"invalid format": {
			args:         []string{t.TempDir(), "--format", "xml"},
			wantCategory: clierrors.Argument,
			wantMsg:      "invalid output format",
		},
		"too many retries": {
			args:         []string{t.TempDir(), "--retries", "11"},
			wantCategory: clierrors.Argument,
			wantMsg:      "--retries",
		},
		"zero issue cap": {
			args:         []string{t.TempDir(), "--max-issues-per-kind", "0"},
			wantCategory: clierrors.Argument,
			wantMsg:      "--max-issues-per-kind",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, _, _ := newValidateTestCmd(t, tt.args...)
			err := cmd.Execute()
			require.Error(t, err)

			cliErr := clierrors.AsCLIError(err)
			require.NotNil(t, cliErr)
			assert.Equal(t, tt.wantCategory, cliErr.Category)
			assert.Contains(t, cliErr.Message, tt.wantMsg)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
		})
	}
}

func TestValidate_InvalidConfig(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	cmd, _, _ := newValidateTestCmd(t, dir)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"output_format": "xml"}`), 0o644))
	require.NoError(t, cmd.Flags().Set("config", configPath))

	err := cmd.Execute()
	require.Error(t, err)
	cliErr := clierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Configuration, cliErr.Category)
}

func TestValidate_ExplicitConfigMissing(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	missing := filepath.Join(t.TempDir(), "nonexistent", "typo.json")
	cmd, stdout, _ := newValidateTestCmd(t, dir, "--config", missing)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	cliErr := clierrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, clierrors.Configuration, cliErr.Category)
	assert.Contains(t, cliErr.Message, missing)
	assert.Empty(t, stdout.String(), "validation must not run with defaults")
}

func TestValidate_MachineReadableOutput(t *testing.T) {
	for _, format := range []report.Format{report.FormatJSON, report.FormatYAML, report.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			dir := testutil.ValidSubmission().Without("sequences.fasta").WriteTemp(t)
			cmd, stdout, _ := newValidateTestCmd(t, dir, "--format", string(format))

			err := cmd.Execute()
			assert.Equal(t, ExitRejected, ExitCode(err))

			doc, decErr := report.Decode(stdout.Bytes(), format)
			require.NoError(t, decErr)
			assert.False(t, doc.Acceptable)
			require.Len(t, doc.Issues, 1)
			assert.Equal(t, report.KindMissingArtifact, doc.Issues[0].Kind)
		})
	}
}

func TestValidate_OutputFileIsWritten(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	outPath := filepath.Join(t.TempDir(), "reports", "report.json")
	cmd, stdout, _ := newValidateTestCmd(t, dir, "--format", "json", "--output", outPath)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "Report written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	doc, err := report.Decode(data, report.FormatJSON)
	require.NoError(t, err)
	assert.True(t, doc.Acceptable)
	assert.Len(t, doc.Artifacts, 5)

	entries, err := os.ReadDir(filepath.Dir(outPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestValidate_OutputFileNotWritable(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cmd, _, stderr := newValidateTestCmd(t, dir, "--output", filepath.Join(blocker, "report.txt"))

	err := cmd.Execute()
	assert.Equal(t, ExitIOFailure, ExitCode(err))
	assert.Contains(t, stderr.String(), "cannot write")
}

func TestValidate_DebugLogging(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	cmd, _, stderr := newValidateTestCmd(t, dir, "--debug")

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "[DEBUG][ValidationRun]")
}

func TestValidate_ProgressLines(t *testing.T) {
	dir := testutil.ValidSubmission().WriteTemp(t)
	cmd, _, stderr := newValidateTestCmd(t, dir)
	// Re-enable progress; stderr is a buffer so plain lines are printed.
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "parsing submission files")
	assert.Contains(t, stderr.String(), "acceptable: 0 fatal, 0 error, 0 warning")
}

func TestValidate_IOFailureRetries(t *testing.T) {
	tests := map[string]struct {
		flags       []string
		wantRetries bool
	}{
		"no retries by default": {},
		"one retry": {
			flags:       []string{"--retries", "1"},
			wantRetries: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := testutil.ValidSubmission().Without("otu_table.txt").WriteTemp(t)
			require.NoError(t, os.Mkdir(filepath.Join(dir, "otu_table.txt"), 0o755))
			cmd, stdout, stderr := newValidateTestCmd(t, append([]string{dir}, tt.flags...)...)

			err := cmd.Execute()
			assert.Equal(t, ExitIOFailure, ExitCode(err))
			assert.Contains(t, stdout.String(), "IOFailure")
			if tt.wantRetries {
				assert.Contains(t, stderr.String(), "Retrying after I/O failure (1/1)")
			} else {
				assert.NotContains(t, stderr.String(), "Retrying")
			}
		})
	}
}

func TestValidate_RecordsHistory(t *testing.T) {
	tests := map[string]struct {
		env         string
		wantEntries int
	}{
		"run is recorded":       {wantEntries: 1},
		"zero disables history": {env: "0", wantEntries: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("EDNAVALIDATE_MAX_HISTORY_ENTRIES", tt.env)
			}
			dir := testutil.ValidSubmission().Without("otu_table.txt").WriteTemp(t)
			cmd, _, _ := newValidateTestCmd(t, dir)
			assert.Equal(t, ExitRejected, ExitCode(cmd.Execute()))

			stateDir, err := history.DefaultStateDir()
			require.NoError(t, err)
			h, err := history.LoadHistory(stateDir)
			require.NoError(t, err)
			require.Len(t, h.Entries, tt.wantEntries)
			if tt.wantEntries > 0 {
				assert.Equal(t, history.VerdictRejected, h.Entries[0].Verdict)
				assert.Equal(t, ExitRejected, h.Entries[0].ExitCode)
				assert.NotEmpty(t, h.Entries[0].ID)
			}
		})
	}
}
