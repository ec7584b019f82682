package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// ProgressDisplay draws stage progress for a validation run.
type ProgressDisplay struct {
	mu           sync.Mutex
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	out          io.Writer
	spinner      *spinner.Spinner
	started      time.Time
}

// NewProgressDisplay creates a display writing to stderr.
func NewProgressDisplay(caps TerminalCapabilities) *ProgressDisplay {
	return NewProgressDisplayTo(caps, os.Stderr)
}

// NewProgressDisplayTo creates a display writing to w.
func NewProgressDisplayTo(caps TerminalCapabilities, w io.Writer) *ProgressDisplay {
	return &ProgressDisplay{
		capabilities: caps,
		symbols:      SelectSymbols(caps),
		out:          w,
	}
}

// StartStage begins displaying progress for a stage. On a terminal the
// running spinner is reused and only its text changes.
func (p *ProgressDisplay) StartStage(stage StageInfo) error {
	if err := stage.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.IsZero() {
		p.started = time.Now()
	}
	msg := buildStageMessage(stage, p.capabilities.Width)

	if !p.capabilities.IsTTY {
		fmt.Fprintln(p.out, msg)
		return nil
	}

	if p.spinner == nil {
		p.spinner = spinner.New(
			spinner.CharSets[p.symbols.SpinnerSet],
			100*time.Millisecond,
		)
		p.spinner.Writer = p.out // stderr by default so reports on stdout stay clean
		p.spinner.Suffix = " " + msg
		p.spinner.Start()
		return nil
	}
	p.spinner.Lock()
	p.spinner.Suffix = " " + msg
	p.spinner.Unlock()
	return nil
}

// Complete stops the spinner and prints a success line.
func (p *ProgressDisplay) Complete(summary string) {
	p.finish(checkmark(p.symbols, p.capabilities.SupportsColor), summary)
}

// Fail stops the spinner and prints a failure line.
func (p *ProgressDisplay) Fail(summary string) {
	p.finish(failureMark(p.symbols, p.capabilities.SupportsColor), summary)
}

func (p *ProgressDisplay) finish(mark, summary string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	elapsed := time.Duration(0)
	if !p.started.IsZero() {
		elapsed = time.Since(p.started)
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", mark, summary, formatElapsed(elapsed))
	p.started = time.Time{}
}

// StopSpinner stops the spinner without printing an outcome.
func (p *ProgressDisplay) StopSpinner() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *ProgressDisplay) stopLocked() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
