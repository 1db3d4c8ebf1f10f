package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/internal/cli"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

// Exit codes.
const (
	exitFailure     = 1
	exitConfig      = 2
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err == nil {
		return
	}
	code := exitFailure
	switch {
	case stderrors.Is(err, context.Canceled):
		code = exitInterrupted
	case errors.IsConfiguration(err):
		code = exitConfig
	}
	if code != exitInterrupted {
		fmt.Fprintln(os.Stderr, "pocketdigest:", err)
	}
	cancel()
	os.Exit(code)
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fetch and draw details")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	}
	return root.ExecuteContext(ctx)
}
