package progress

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// formatStageCounter returns the [N/Total] stage counter string
func formatStageCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStageMessage constructs the spinner suffix for a stage, truncated to
// fit the terminal when its width is known.
func buildStageMessage(stage StageInfo, width int) string {
	msg := fmt.Sprintf("%s %s", formatStageCounter(stage.Number, stage.TotalStages), stage.Name)
	// Leave room for the spinner glyph and its separating space.
	if width > 4 && runewidth.StringWidth(msg) > width-4 {
		msg = runewidth.Truncate(msg, width-4, "…")
	}
	return msg
}

// formatElapsed rounds d for display.
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
