package main

import (
	"os"

	"github.com/edna-platform/ednavalidate/internal/cli"
	clierrors "github.com/edna-platform/ednavalidate/internal/errors"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}
	// Exit errors carry only a code; the report was already printed.
	if !cli.IsExitError(err) {
		clierrors.FprintAny(os.Stderr, err, clierrors.Argument)
	}
	os.Exit(cli.ExitCode(err))
}
