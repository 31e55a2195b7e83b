package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sctest/internal/discovery"
	"sctest/internal/domain"
	"sctest/internal/execution"
	"sctest/internal/history"
	"sctest/internal/metrics"
	"sctest/internal/suites"
	"sctest/internal/ui"
)

const historyTimeout = 10 * time.Second

// RunCommand handles the run command
type RunCommand struct {
	env func() *Env
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(env func() *Env) *RunCommand {
	return &RunCommand{env: env}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	env := rc.env()
	cfg := env.Config

	ids := args
	if len(ids) == 0 {
		ids = cfg.Run.Identifiers
	}
	if len(ids) == 0 {
		ids = suites.DefaultIdentifiers
	}

	// The bar finishes before the text footer is written.
	var reporters execution.Reporters
	if cfg.Run.Verbosity == ui.VerbosityProgress {
		reporters = append(reporters, ui.NewProgressReporter(env.Stderr))
	}
	reporters = append(reporters, ui.NewTextReporter(env.Stdout, cfg.Run.Verbosity))
	var recorder *metrics.Recorder
	if cfg.Metrics.File != "" {
		recorder = metrics.NewRecorder()
		reporters = append(reporters, recorder)
	}

	loader := execution.NewLoader(env.Registry, discovery.NewFilter())
	runner := execution.NewRunner(loader, reporters, env.Logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	run := runner.Run(ctx, execution.Config{
		Identifiers: ids,
		Filter:      cfg.Run.Filter,
		FailFast:    cfg.Run.FailFast,
	})

	output, err := env.Storage.Save(&run)
	if err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	env.Logger.Debug().Str("path", env.Storage.Path()).Str("run_id", output.Meta.RunID).Msg("results saved")

	if cfg.Run.Verbosity < ui.VerbosityVerbose {
		fmt.Fprintln(env.Stdout)
		ui.PrintSummary(env.Stdout, output)
	}

	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			env.Logger.Warn().Err(err).Str("path", cfg.Metrics.File).Msg("metrics not written")
		}
	}

	if cfg.History.DSN != "" {
		rc.recordHistory(env, &run)
	}

	if !run.WasSuccessful() {
		if cfg.Flags.OpenFaills && len(output.Details) > 0 {
			if err := ui.NewErrorViewer(env.Storage).View(output); err != nil {
				env.Logger.Warn().Err(err).Msg("faills viewer failed")
			}
		}
		return ErrTestsFailed
	}
	return nil
}

// recordHistory stores the run in MySQL. Failures are logged only; they
// never change the outcome of the run.
func (rc *RunCommand) recordHistory(env *Env, run *domain.RunResult) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	sink, err := history.Open(ctx, env.Config.History.DSN, env.Config.Scalaris.URL, env.Logger)
	if err != nil {
		env.Logger.Warn().Err(err).Msg("history not recorded")
		return
	}
	defer sink.Close()

	if err := sink.Record(ctx, run); err != nil {
		env.Logger.Warn().Err(err).Msg("history not recorded")
	}
}
