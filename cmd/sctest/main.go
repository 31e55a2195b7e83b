package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sctest/internal/cli"
	"sctest/internal/cli/commands"
	"sctest/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Ctrl-C stops the run before the next test
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := &cobra.Command{
		Use:   "sctest [identifier...]",
		Short: "Scalaris client test-suite runner",
		Long: `Runs the Scalaris client test suites (transactions, replicated DHT and
publish/subscribe) against a Scalaris node and reports every test.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := commands.NewCommands(stdout, stderr)
	cmds.Register(rootCmd, &flags)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, commands.ErrTestsFailed) {
			fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
		}
		return domain.ExitFailure
	}
	return domain.ExitSuccess
}
