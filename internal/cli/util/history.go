package util

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
	"github.com/edna-platform/ednavalidate/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past validation runs",
	Long: `View recent validation runs with timestamp, verdict, issue counts,
exit code, and duration. Runs are recorded in ~/.ednavalidate/state/history.yaml
unless max_history_entries is 0.`,
	Example: `  # Last 10 runs
  ednavalidate history

  # Rejected runs for one project
  ednavalidate history --dir ./my-project --verdict rejected

  # Forget everything
  ednavalidate history --clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stateDir, err := history.DefaultStateDir()
		if err != nil {
			return clierrors.NewRuntimeError(err.Error())
		}
		return runHistoryWithStateDir(cmd, stateDir)
	},
}

func init() {
	historyCmd.GroupID = shared.GroupConfiguration
	historyCmd.Flags().IntP("limit", "n", 10, "Show the last N runs (0 for all)")
	historyCmd.Flags().String("dir", "", "Only runs of this submission directory")
	historyCmd.Flags().String("verdict", "", "Only runs with this verdict (acceptable, rejected, io_failure)")
	historyCmd.Flags().Bool("clear", false, "Clear all history")
}

// runHistoryWithStateDir runs the history command against stateDir.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	dirFilter, _ := cmd.Flags().GetString("dir")
	verdictFilter, _ := cmd.Flags().GetString("verdict")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return clierrors.NewArgumentError(fmt.Sprintf("--limit must not be negative, got %d", limit))
	}
	switch verdictFilter {
	case "", history.VerdictAcceptable, history.VerdictRejected, history.VerdictIOFailure:
	default:
		return clierrors.NewArgumentError(
			fmt.Sprintf("unknown verdict %q", verdictFilter),
			"Use one of: acceptable, rejected, io_failure",
		)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "clearing history")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "loading history")
	}

	if dirFilter != "" {
		if abs, err := filepath.Abs(dirFilter); err == nil {
			dirFilter = abs
		}
	}
	entries := filterEntries(histFile, dirFilter, verdictFilter, limit)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// filterEntries returns matching entries, newest first, capped at limit.
func filterEntries(h *history.HistoryFile, dirFilter, verdictFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry
	for _, entry := range h.Recent(0) {
		if dirFilter != "" && entry.Directory != dirFilter {
			continue
		}
		if verdictFilter != "" && entry.Verdict != verdictFilter {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()
	colors := shared.NewColors()

	for _, entry := range entries {
		verdict := fmt.Sprintf("%-10s", entry.Verdict)
		switch entry.Verdict {
		case history.VerdictAcceptable:
			verdict = colors.Green(verdict)
		case history.VerdictRejected:
			verdict = colors.Red(verdict)
		default:
			verdict = colors.Yellow(verdict)
		}

		strict := ""
		if entry.Strict {
			strict = " strict"
		}

		fmt.Fprintf(out, "%s  %-30s  %s  %d/%d/%d  exit=%d  %-8s  %s%s\n",
			colors.Cyan(entry.Timestamp.Format("2006-01-02 15:04:05")),
			entry.ID,
			verdict,
			entry.Fatal, entry.Error, entry.Warning,
			entry.ExitCode,
			entry.Duration,
			entry.Directory,
			colors.Dim(strict),
		)
	}
}
