package util

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edna-platform/ednavalidate/internal/cli/shared"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for ednavalidate",
	Example: `  # Show version info
  ednavalidate version

  # Plain output (for scripts)
  ednavalidate version --plain`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		plain, _ := cmd.Flags().GetBool("plain")
		if plain || !shared.IsTerminal(out) {
			printPlainVersion(out)
		} else {
			printPrettyVersion(out, shared.GetTerminalWidth())
		}
	},
}

func init() {
	versionCmd.GroupID = shared.GroupConfiguration
	versionCmd.Flags().Bool("plain", false, "Plain output without formatting")
}

type versionField struct {
	label string
	value string
}

func versionInfo() []versionField {
	return []versionField{
		{"Version", Version},
		{"Commit", truncateCommit(Commit)},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "ednavalidate %s\n", Version)
	fmt.Fprintf(out, "commit: %s\n", Commit)
	fmt.Fprintf(out, "built: %s\n", BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the version fields in a box
func printPrettyVersion(out io.Writer, termWidth int) {
	c := shared.NewColors()

	boxWidth := 44
	if termWidth < 50 {
		boxWidth = termWidth - 6
	}
	contentWidth := boxWidth - 4
	pad := strings.Repeat(" ", max((termWidth-boxWidth)/2, 0))

	fmt.Fprintln(out)
	fmt.Fprintln(out, pad+c.Cyan("ednavalidate")+" "+c.Dim("eDNA submission validator"))
	fmt.Fprintln(out, pad+shared.BoxTopLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxTopRight)
	for _, item := range versionInfo() {
		line := fmt.Sprintf("  %s    %s", c.Yellow(fmt.Sprintf("%10s", item.label)), c.White(item.value))
		lineLen := 10 + 4 + len(item.value) + 2
		if lineLen < contentWidth {
			line += strings.Repeat(" ", contentWidth-lineLen)
		}
		fmt.Fprintln(out, pad+shared.BoxVertical+" "+line+" "+shared.BoxVertical)
	}
	fmt.Fprintln(out, pad+shared.BoxBottomLeft+strings.Repeat(shared.BoxHorizontal, boxWidth-2)+shared.BoxBottomRight)
	fmt.Fprintln(out)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
