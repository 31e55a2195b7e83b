package execution

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/discovery"
	"sctest/internal/domain"
	"sctest/internal/suite"
)

type recorder struct {
	total    int
	started  []string
	finished []domain.TestResult
	run      *domain.RunResult
}

func (r *recorder) RunStarted(total int) { r.total = total }

func (r *recorder) TestStarted(suite, name string) {
	r.started = append(r.started, suite+"."+name)
}

func (r *recorder) TestFinished(result domain.TestResult) {
	r.finished = append(r.finished, result)
}

func (r *recorder) RunFinished(run *domain.RunResult) { r.run = run }

func pass(*suite.T) {}

func fail(t *suite.T) { t.Errorf("boom") }

func newTestRegistry(t *testing.T) *suite.Registry {
	t.Helper()
	reg := suite.NewRegistry()
	require.NoError(t, reg.Register("A.TestA", func() (*suite.Suite, error) {
		return &suite.Suite{Tests: []suite.Test{
			{Name: "testOne", Run: pass},
			{Name: "testTwo", Run: pass},
		}}, nil
	}))
	require.NoError(t, reg.Register("B.TestB", func() (*suite.Suite, error) {
		return &suite.Suite{Tests: []suite.Test{
			{Name: "testFails", Run: fail},
			{Name: "testPasses", Run: pass},
		}}, nil
	}))
	require.NoError(t, reg.Register("S.TestSkip", func() (*suite.Suite, error) {
		return &suite.Suite{Tests: []suite.Test{
			{Name: "testSkipped", Run: func(t *suite.T) { t.Skipf("not today") }},
		}}, nil
	}))
	require.NoError(t, reg.Register("E.TestBroken", func() (*suite.Suite, error) {
		return nil, fmt.Errorf("no node")
	}))
	return reg
}

func newTestRunner(t *testing.T) (*Runner, *recorder) {
	rec := &recorder{}
	loader := NewLoader(newTestRegistry(t), discovery.NewFilter())
	return NewRunner(loader, rec, zerolog.Nop()), rec
}

func names(results []domain.TestResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.FullName()
	}
	return out
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		exitCode int
		passed   int
		failures int
		errors   int
		skipped  int
	}{
		{
			name:     "all pass",
			cfg:      Config{Identifiers: []string{"A.TestA"}},
			exitCode: domain.ExitSuccess,
			passed:   2,
		},
		{
			name:     "one failure",
			cfg:      Config{Identifiers: []string{"A.TestA", "B.TestB"}},
			exitCode: domain.ExitFailure,
			passed:   3,
			failures: 1,
		},
		{
			name:     "unknown identifier is a load error",
			cfg:      Config{Identifiers: []string{"A.TestA", "C.TestC"}},
			exitCode: domain.ExitFailure,
			passed:   2,
			errors:   1,
		},
		{
			name:     "malformed identifier is a load error",
			cfg:      Config{Identifiers: []string{"nodots", "A.TestA"}},
			exitCode: domain.ExitFailure,
			passed:   2,
			errors:   1,
		},
		{
			name:     "factory error is a load error",
			cfg:      Config{Identifiers: []string{"E.TestBroken"}},
			exitCode: domain.ExitFailure,
			errors:   1,
		},
		{
			name:     "skips do not fail the run",
			cfg:      Config{Identifiers: []string{"A.TestA", "S.TestSkip"}},
			exitCode: domain.ExitSuccess,
			passed:   2,
			skipped:  1,
		},
		{
			name:     "single method",
			cfg:      Config{Identifiers: []string{"B.TestB.testPasses"}},
			exitCode: domain.ExitSuccess,
			passed:   1,
		},
		{
			name:     "empty list",
			cfg:      Config{},
			exitCode: domain.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, rec := newTestRunner(t)

			run := runner.Run(context.Background(), tt.cfg)

			assert.Equal(t, tt.exitCode, run.ExitCode())
			passed, failures, errs, skipped := run.Counts()
			assert.Equal(t, tt.passed, passed, "passed")
			assert.Equal(t, tt.failures, failures, "failures")
			assert.Equal(t, tt.errors, errs, "errors")
			assert.Equal(t, tt.skipped, skipped, "skipped")
			assert.NotEmpty(t, run.ID)
			assert.False(t, run.Interrupted)

			assert.Equal(t, len(run.Results), rec.total)
			assert.Len(t, rec.finished, len(run.Results))
			require.NotNil(t, rec.run)
			assert.Equal(t, run.ID, rec.run.ID)
		})
	}
}

func TestRunner_Run_Order(t *testing.T) {
	runner, rec := newTestRunner(t)

	run := runner.Run(context.Background(), Config{
		Identifiers: []string{"B.TestB", "C.TestC", "A.TestA"},
	})

	assert.Equal(t, []string{
		"B.TestB.testFails",
		"B.TestB.testPasses",
		"C.TestC",
		"A.TestA.testOne",
		"A.TestA.testTwo",
	}, []string{
		run.Results[0].FullName(),
		run.Results[1].FullName(),
		run.Results[2].Suite,
		run.Results[3].FullName(),
		run.Results[4].FullName(),
	})
	assert.Equal(t, domain.StatusError, run.Results[2].Status)
	assert.Contains(t, run.Results[2].Message, "C.TestC")
	assert.Len(t, rec.started, 5)
}

func TestRunner_Run_FailFast(t *testing.T) {
	runner, _ := newTestRunner(t)

	run := runner.Run(context.Background(), Config{
		Identifiers: []string{"A.TestA", "B.TestB", "S.TestSkip"},
		FailFast:    true,
	})

	assert.Equal(t, []string{
		"A.TestA.testOne",
		"A.TestA.testTwo",
		"B.TestB.testFails",
	}, names(run.Results))
	assert.True(t, run.Interrupted)
	assert.Equal(t, domain.ExitFailure, run.ExitCode())
}

func TestRunner_Run_FailFastOnLoadError(t *testing.T) {
	runner, _ := newTestRunner(t)

	run := runner.Run(context.Background(), Config{
		Identifiers: []string{"C.TestC", "A.TestA"},
		FailFast:    true,
	})

	require.Len(t, run.Results, 1)
	assert.Equal(t, domain.StatusError, run.Results[0].Status)
	assert.True(t, run.Interrupted)
}

func TestRunner_Run_Filter(t *testing.T) {
	runner, _ := newTestRunner(t)

	run := runner.Run(context.Background(), Config{
		Identifiers: []string{"A.TestA", "B.TestB"},
		Filter:      "*Two",
	})

	assert.Equal(t, []string{"A.TestA.testTwo"}, names(run.Results))
	assert.True(t, run.WasSuccessful())
}

func TestRunner_Run_Cancelled(t *testing.T) {
	runner, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := runner.Run(ctx, Config{Identifiers: []string{"A.TestA"}})

	assert.Empty(t, run.Results)
	assert.True(t, run.Cancelled)
	assert.False(t, run.WasSuccessful())
	assert.Equal(t, domain.ExitFailure, run.ExitCode())
}

func TestPlan(t *testing.T) {
	loader := NewLoader(newTestRegistry(t), discovery.NewFilter())

	plan := loader.Load([]string{"A.TestA", "C.TestC", "B.TestB.testFails"}, "")

	assert.Equal(t, 4, plan.Total())
	assert.Equal(t, []domain.TestCase{
		{Name: "testOne", Suite: "A.TestA"},
		{Name: "testTwo", Suite: "A.TestA"},
		{Name: "testFails", Suite: "B.TestB"},
	}, plan.Cases())
	require.Len(t, plan.LoadErrors(), 1)
	assert.Equal(t, "C.TestC", plan.LoadErrors()[0].Suite)
}

func TestReporters_FanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	rs := Reporters{a, b}

	rs.RunStarted(3)
	rs.TestStarted("A.TestA", "testOne")
	rs.TestFinished(domain.TestResult{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass})
	rs.RunFinished(&domain.RunResult{ID: "x"})

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, 3, r.total)
		assert.Equal(t, []string{"A.TestA.testOne"}, r.started)
		assert.Len(t, r.finished, 1)
		assert.Equal(t, "x", r.run.ID)
	}
}
