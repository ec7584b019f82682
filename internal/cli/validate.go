package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
	cfgpkg "github.com/edna-platform/ednavalidate/internal/config"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/fsutil"
	"github.com/edna-platform/ednavalidate/internal/history"
	"github.com/edna-platform/ednavalidate/internal/notify"
	"github.com/edna-platform/ednavalidate/internal/progress"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/retry"
	"github.com/edna-platform/ednavalidate/internal/validation"
	"github.com/edna-platform/ednavalidate/internal/watch"
)

var validateCmd = &cobra.Command{
	Use:     "validate <dir>",
	Aliases: []string{"val"},
	Short:   "Validate a submission directory (val)",
	Long: `Validate the five submission files in a project directory.

<dir> may be the directory holding the files or a project root with a
raw_data/ subdirectory. Every problem in every file is reported in one run.

Exit codes:
  0  submission is acceptable (warnings only)
  1  submission has fatal or error issues
  3  invalid arguments or configuration
  5  files could not be read or the report could not be written (retryable)`,
	Example: `  # Human-readable report
  ednavalidate validate ./my-project

  # Treat unmetadated species and unused sequences as errors
  ednavalidate validate ./my-project --strict

  # JSON report written atomically
  ednavalidate validate ./my-project --format json --output report.json

  # Re-validate on every change
  ednavalidate validate ./my-project/raw_data --watch`,
	GroupID: GroupValidation,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runValidate,
}

func init() {
	addValidateFlags(validateCmd)
}

func addValidateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Report format: text, json, yaml or msgpack (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("strict", false, "Report cross-reference warnings as errors")
	cmd.Flags().Int("max-issues-per-kind", 0, "Per-file cap on repeated row-level issues (default from config)")
	cmd.Flags().BoolP("watch", "w", false, "Re-run validation whenever a submission file changes")
	cmd.Flags().Bool("no-progress", false, "Disable the progress display")
	cmd.Flags().Int("retries", 0, "Re-run up to this many times when files cannot be read (default from config)")
	cmd.Flags().Bool("notify", false, "With --watch, send a desktop notification when the verdict changes")
}

// validateRunner holds everything one or more validation runs need.
type validateRunner struct {
	dir      string
	cfg      *cfgpkg.Configuration
	format   report.Format
	output   string
	progress bool
	color    bool
	out      io.Writer
	errOut   io.Writer
	history  *history.Writer // nil when history is disabled
	notifier *notify.Handler // set in watch mode only
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 0 {
		return clierrors.MissingProjectDir()
	}

	v, err := newValidateRunner(cmd, args[0])
	if err != nil {
		return err
	}

	watchMode, _ := cmd.Flags().GetBool("watch")
	if watchMode {
		return v.watch(ctx)
	}

	if code := v.runOnce(ctx); code != ExitSuccess {
		return NewExitError(code)
	}
	return nil
}

// newValidateRunner resolves configuration and flags. Flags override the
// loaded configuration only when set explicitly.
func newValidateRunner(cmd *cobra.Command, dir string) (*validateRunner, error) {
	cfg, _, err := shared.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("max-issues-per-kind") {
		n, _ := flags.GetInt("max-issues-per-kind")
		if n < 1 {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("--max-issues-per-kind must be at least 1, got %d", n),
			)
		}
		cfg.MaxIssuesPerKind = n
	}
	if flags.Changed("retries") {
		n, _ := flags.GetInt("retries")
		if n < 0 || n > 10 {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("--retries must be between 0 and 10, got %d", n),
			)
		}
		cfg.MaxRetries = n
	}
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("notify") {
		cfg.Notify, _ = flags.GetBool("notify")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if noProgress, _ := flags.GetBool("no-progress"); noProgress {
		cfg.ShowProgress = false
	}

	format, err := report.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, clierrors.InvalidOutputFormat(cfg.OutputFormat, report.ValidFormats())
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return nil, clierrors.DirectoryNotFound(dir)
	case err != nil:
		return nil, clierrors.NewRuntimeError(fmt.Sprintf("cannot access %s: %v", dir, err))
	case !info.IsDir():
		return nil, clierrors.NotADirectory(dir)
	}

	output, _ := flags.GetString("output")
	out := cmd.OutOrStdout()
	if format == report.FormatMsgpack && output == "" && shared.IsTerminal(out) {
		return nil, clierrors.InvalidFlagCombination("--format msgpack", "binary output needs --output or a pipe")
	}

	v := &validateRunner{
		dir:      dir,
		cfg:      cfg,
		format:   format,
		output:   output,
		progress: cfg.ShowProgress,
		color:    output == "" && shared.ColorEnabled(out),
		out:      out,
		errOut:   cmd.ErrOrStderr(),
	}
	if cfg.MaxHistory > 0 {
		stateDir, err := history.DefaultStateDir()
		if err != nil {
			if cfg.Debug {
				fmt.Fprintf(v.errOut, "[DEBUG][Validate] history disabled: %v\n", err)
			}
		} else {
			v.history = history.NewWriter(stateDir, cfg.MaxHistory)
			v.history.ErrOut = v.errOut
		}
	}
	return v, nil
}

// runOnce validates the directory, emits the report and returns the exit
// code for the outcome.
func (v *validateRunner) runOnce(ctx context.Context) int {
	opts := validation.Options{
		Strict:           v.cfg.Strict,
		MaxIssuesPerKind: v.cfg.MaxIssuesPerKind,
		MaxLineBytes:     v.cfg.MaxLineBytes,
		Debug:            v.cfg.Debug,
		DebugWriter:      v.errOut,
	}

	var display *progress.ProgressDisplay
	if v.progress {
		caps := progress.TerminalCapabilities{}
		if shared.IsTerminal(v.errOut) {
			caps = progress.DetectTerminalCapabilities()
		}
		display = progress.NewProgressDisplayTo(caps, v.errOut)
		opts.OnStage = func(name string, number, total int) {
			_ = display.StartStage(progress.StageInfo{Name: name, Number: number, TotalStages: total})
		}
	}

	start := time.Now()
	var rep *report.Report
	state := retry.NewState(v.dir, v.cfg.MaxRetries)
	err := retry.Do(ctx, state, retry.DefaultBackoff, func(attempt int) bool {
		if attempt > 0 {
			fmt.Fprintf(v.errOut, "Retrying after I/O failure (%d/%d)\n", attempt, state.MaxRetries)
		}
		rep = validation.ValidateDir(v.dir, opts)
		return rep.HasIOFailure()
	})
	if err != nil && v.cfg.Debug {
		fmt.Fprintf(v.errOut, "[DEBUG][Validate] %v\n", err)
	}

	if display != nil {
		if rep.Acceptable() {
			display.Complete(summarize(rep))
		} else {
			display.Fail(summarize(rep))
		}
	}

	code := outcomeCode(rep)
	if err := v.emit(rep); err != nil {
		cliErr := clierrors.AsCLIError(err)
		if cliErr == nil {
			cliErr = clierrors.WrapWithMessage(err, clierrors.Runtime, "writing report")
		}
		clierrors.FprintError(v.errOut, cliErr)
		code = ExitIOFailure
	}
	if v.notifier != nil {
		v.notifier.OnVerdict(v.dir, rep.Acceptable(), summarize(rep))
	}
	if v.history != nil {
		v.history.LogEntry(history.NewEntry(v.dir, rep, v.cfg.Strict, code, time.Since(start)))
	}
	return code
}

// emit renders rep to stdout, or atomically to the output file.
func (v *validateRunner) emit(rep *report.Report) error {
	opts := report.TextOptions{Color: v.color, Title: v.dir}
	if v.output == "" {
		return report.Render(v.out, rep, v.format, opts)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep, v.format, opts); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(v.output, buf.Bytes(), 0o644); err != nil {
		cliErr := clierrors.FileNotWritable(v.output)
		cliErr.Message = fmt.Sprintf("%s: %v", cliErr.Message, err)
		cliErr.Err = err
		return cliErr
	}
	fmt.Fprintf(v.out, "Report written to %s (%s)\n", v.output, summarize(rep))
	return nil
}

// watch runs once, then again after every debounced change until
// interrupted. It returns the exit code of the last run.
func (v *validateRunner) watch(ctx context.Context) error {
	dataDir, err := validation.ResolveDataDir(v.dir)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	v.notifier = notify.NewHandler(v.cfg.Notify)
	code := v.runOnce(ctx)
	w := &watch.Watcher{
		Dir:      dataDir,
		Debounce: v.cfg.WatchDebounce,
		OnChange: func() {
			fmt.Fprintf(v.errOut, "\nChange detected, re-validating %s\n", dataDir)
			code = v.runOnce(ctx)
		},
		// Only submission files matter; this also skips the report and
		// its temporary file when --output points into dataDir.
		Ignore: func(path string) bool {
			_, err := formatspec.RoleForFilename(path)
			return err != nil
		},
		Debug:       v.cfg.Debug,
		DebugWriter: v.errOut,
	}
	fmt.Fprintf(v.errOut, "Watching %s for changes (Ctrl+C to stop)\n", dataDir)
	if err := w.Run(ctx); err != nil {
		return clierrors.WatchUnavailable(dataDir, err)
	}
	if code != ExitSuccess {
		return NewExitError(code)
	}
	return nil
}

func outcomeCode(rep *report.Report) int {
	switch {
	case rep.HasIOFailure():
		return ExitIOFailure
	case !rep.Acceptable():
		return ExitRejected
	default:
		return ExitSuccess
	}
}

func summarize(rep *report.Report) string {
	c := rep.Counts()
	verdict := "acceptable"
	if !rep.Acceptable() {
		verdict = "not acceptable"
	}
	return fmt.Sprintf("%s: %d fatal, %d error, %d warning", verdict, c.Fatal, c.Error, c.Warning)
}
