package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headingColor = color.New(color.FgRed, color.Bold)
	usageColor   = color.New(color.FgCyan)
	fixColor     = color.New(color.FgYellow)
)

// FormatError renders err with colors when the terminal supports them.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, headingColor.Sprint, usageColor.Sprint, fixColor.Sprint)
}

// FormatErrorPlain renders err without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return format(err, fmt.Sprint, fmt.Sprint, fmt.Sprint)
}

func format(err *CLIError, heading, usage, fix func(...interface{}) string) string {
	var b strings.Builder
	b.WriteString(heading(err.Category.String() + ":"))
	b.WriteString(" ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Usage != "" {
		b.WriteString("\n")
		b.WriteString(usage("Usage:"))
		b.WriteString(" ")
		b.WriteString(err.Usage)
		b.WriteString("\n")
	}

	if len(err.Remediation) > 0 {
		b.WriteString("\n")
		b.WriteString(fix("To fix this:"))
		b.WriteString("\n")
		for _, step := range err.Remediation {
			fmt.Fprintf(&b, "  - %s\n", step)
		}
	}
	return b.String()
}

// FprintError writes err to w, in color only when w is a color-capable
// terminal.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	if colorWriter(w) {
		fmt.Fprint(w, FormatError(err))
		return
	}
	fmt.Fprint(w, FormatErrorPlain(err))
}

// FprintAny writes err to w, filing errors that are not CLIErrors under
// category.
func FprintAny(w io.Writer, err error, category ErrorCategory) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, category)
	}
	FprintError(w, cliErr)
}

func colorWriter(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
