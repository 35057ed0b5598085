package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"rymexport/pkg/errors"
	"rymexport/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
// Only the exported document is written to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stderr)
	ui.SetColor(isTerminal(stderr))

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		ui.PrintError("Error", err)
		if errors.IsType(err, errors.ErrorTypeUsage) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}
