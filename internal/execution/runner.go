package execution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sctest/internal/domain"
)

// Config selects what a run executes.
type Config struct {
	Identifiers []string // run order
	Filter      string   // wildcard over Module.Class.method, empty keeps all
	FailFast    bool     // stop after the first FAIL or ERROR
}

// Runner executes a plan sequentially, in identifier order.
type Runner struct {
	loader   *Loader
	reporter Reporter
	logger   zerolog.Logger
}

// NewRunner creates a new Runner
func NewRunner(loader *Loader, reporter Reporter, logger zerolog.Logger) *Runner {
	if reporter == nil {
		reporter = Reporters{}
	}
	return &Runner{loader: loader, reporter: reporter, logger: logger}
}

// Run resolves cfg.Identifiers and executes every test one after another.
// It has no side effects beyond the reporter; the caller decides what to
// do with the result (e.g. the exit code).
func (r *Runner) Run(ctx context.Context, cfg Config) domain.RunResult {
	plan := r.loader.Load(cfg.Identifiers, cfg.Filter)

	run := domain.RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := r.logger.With().Str("run_id", run.ID).Logger()
	log.Debug().Strs("identifiers", cfg.Identifiers).Int("tests", plan.Total()).Msg("run started")

	r.reporter.RunStarted(plan.Total())
	start := time.Now()

	stop := func(res domain.TestResult) bool {
		return cfg.FailFast && res.Status.Failed()
	}

loop:
	for _, e := range plan.entries {
		if e.loadErr != nil {
			log.Warn().Str("identifier", e.id).Msg(e.loadErr.Message)
			r.reporter.TestStarted(e.loadErr.Suite, "")
			r.record(&run, *e.loadErr)
			if stop(*e.loadErr) {
				run.Interrupted = true
				break
			}
			continue
		}

		for _, tc := range e.suite.Tests {
			if ctx.Err() != nil {
				log.Warn().Err(ctx.Err()).Msg("run cancelled")
				run.Cancelled = true
				run.Interrupted = true
				break loop
			}
			r.reporter.TestStarted(e.suite.Name, tc.Name)
			res := e.suite.Run(ctx, tc)
			log.Debug().
				Str("test", res.FullName()).
				Str("status", string(res.Status)).
				Dur("took", res.Duration).
				Msg("test finished")
			r.record(&run, res)
			if stop(res) {
				run.Interrupted = true
				break loop
			}
		}
	}

	run.Duration = time.Since(start)
	r.reporter.RunFinished(&run)

	passed, failures, errs, skipped := run.Counts()
	log.Info().
		Int("passed", passed).
		Int("failures", failures).
		Int("errors", errs).
		Int("skipped", skipped).
		Bool("successful", run.WasSuccessful()).
		Msg("run finished")
	return run
}

func (r *Runner) record(run *domain.RunResult, res domain.TestResult) {
	run.Results = append(run.Results, res)
	r.reporter.TestFinished(res)
}
