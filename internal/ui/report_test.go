package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/domain"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

// replay feeds a finished run through a reporter the way the runner does.
func replay(r interface {
	RunStarted(int)
	TestStarted(string, string)
	TestFinished(domain.TestResult)
	RunFinished(*domain.RunResult)
}, run *domain.RunResult) {
	r.RunStarted(len(run.Results))
	for _, res := range run.Results {
		r.TestStarted(res.Suite, res.Name)
		r.TestFinished(res)
	}
	r.RunFinished(run)
}

func TestTextReporter_Verbose(t *testing.T) {
	noColor(t)

	run := &domain.RunResult{
		Duration: 250 * time.Millisecond,
		Results: []domain.TestResult{
			{Suite: "TransactionTest.TestTransaction", Name: "testWrite", Status: domain.StatusPass},
			{Suite: "TransactionTest.TestTransaction", Name: "testRead_NotFound", Status: domain.StatusFail, Message: "expected not found\n"},
			{Suite: "Missing.TestMissing", Status: domain.StatusError, Message: "failed to load Missing.TestMissing: unknown"},
			{Suite: "PubSubTest.TestPubSub", Name: "testSubscription1", Status: domain.StatusSkip, Message: "no callback"},
		},
	}

	var buf bytes.Buffer
	replay(NewTextReporter(&buf, VerbosityVerbose), run)

	expected := strings.Join([]string{
		"testWrite (TransactionTest.TestTransaction) ... ok",
		"testRead_NotFound (TransactionTest.TestTransaction) ... FAIL",
		"Missing.TestMissing ... ERROR",
		`testSubscription1 (PubSubTest.TestPubSub) ... skipped "no callback"`,
		"",
		separator1,
		"ERROR: Missing.TestMissing",
		separator2,
		"failed to load Missing.TestMissing: unknown",
		"",
		separator1,
		"FAIL: testRead_NotFound (TransactionTest.TestTransaction)",
		separator2,
		"expected not found",
		"",
		separator2,
		"Ran 4 tests in 0.250s",
		"",
		"FAILED (failures=1, errors=1, skipped=1)",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestTextReporter_Footer(t *testing.T) {
	noColor(t)

	tests := []struct {
		name     string
		run      *domain.RunResult
		expected string
	}{
		{
			name:     "all passed",
			run:      &domain.RunResult{Results: []domain.TestResult{{Status: domain.StatusPass}}},
			expected: "Ran 1 test in 0.000s\n\nOK\n",
		},
		{
			name: "passed with skips",
			run: &domain.RunResult{Results: []domain.TestResult{
				{Status: domain.StatusPass},
				{Status: domain.StatusSkip},
			}},
			expected: "Ran 2 tests in 0.000s\n\nOK (skipped=1)\n",
		},
		{
			name:     "cancelled",
			run:      &domain.RunResult{Cancelled: true},
			expected: "Ran 0 tests in 0.000s\n\nFAILED (interrupted)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewTextReporter(&buf, VerbosityQuiet).RunFinished(tt.run)
			assert.True(t, strings.HasSuffix(buf.String(), tt.expected), buf.String())
		})
	}
}

func TestTextReporter_QuietHasNoPerTestLines(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	replay(NewTextReporter(&buf, VerbosityProgress), &domain.RunResult{
		Results: []domain.TestResult{{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass}},
	})

	assert.NotContains(t, buf.String(), "...")
	assert.True(t, strings.HasPrefix(buf.String(), separator2))
}

func TestProgressReporter(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	replay(p, &domain.RunResult{Results: []domain.TestResult{
		{Status: domain.StatusPass},
		{Status: domain.StatusSkip},
		{Status: domain.StatusError},
	}})

	assert.Equal(t, 2, p.success)
	assert.Equal(t, 1, p.failed)
	assert.Contains(t, buf.String(), "Running tests")
}

func TestPrintSummary(t *testing.T) {
	noColor(t)

	out := &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:        "run-1",
			TotalTests:   3,
			PassedTests:  1,
			FailedTests:  1,
			ErroredTests: 1,
		},
		Details: []domain.TestFailure{
			{TestName: "testWrite", Suite: "TransactionTest.TestTransaction", Status: domain.StatusFail},
			{Suite: "Missing.TestMissing", Status: domain.StatusError},
		},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, out)

	s := buf.String()
	assert.Contains(t, s, "Test Execution Statistics")
	assert.Contains(t, s, "run-1")
	assert.Contains(t, s, "✗ 1 failure(s), 1 error(s)")
	assert.Contains(t, s, "├── TransactionTest.TestTransaction")
	assert.Contains(t, s, "│   └── testWrite [FAIL]")
	assert.Contains(t, s, "└── Missing.TestMissing")
}

func TestPrintSummary_Success(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	PrintSummary(&buf, &domain.TestResultsOutput{Meta: domain.TestResultsMeta{TotalTests: 2, PassedTests: 2, Successful: true}})

	assert.Contains(t, buf.String(), "✓ All tests passed!")
}

func TestPrintTestList(t *testing.T) {
	noColor(t)

	suites := []SuiteListing{
		{Name: "A.TestA", Cases: []domain.TestCase{
			{Name: "testOne", Suite: "A.TestA"},
			{Name: "testTwo", Suite: "A.TestA"},
		}},
		{Name: "B.TestB"},
	}
	failed := map[string]struct{}{"A.TestA": {}, "A.TestA.testTwo": {}}

	var buf bytes.Buffer
	PrintTestList(&buf, suites, true, failed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Found 2 suite(s):", lines[0])
	assert.Equal(t, "├── A.TestA [F]", lines[2])
	assert.Equal(t, "│   ├── testOne", lines[3])
	assert.Equal(t, "│   └── testTwo [F]", lines[4])
	assert.Equal(t, "└── B.TestB", lines[5])
}

func TestFormatFailure(t *testing.T) {
	f := domain.TestFailure{Suite: "A.TestA", TestName: "testOne", Status: domain.StatusFail, Message: "line [1]\nline 2"}

	assert.Contains(t, formatFailureStats(f, 1), "A.TestA[white]::[yellow]testOne")
	details := formatFailureDetails(f)
	assert.Contains(t, details, "FAIL: testOne")
	assert.Contains(t, details, "line 2")

	assert.Equal(t, "Missing.TestMissing", failureLabel(domain.TestFailure{Suite: "Missing.TestMissing"}, 3))
	assert.Equal(t, "Test 3", failureLabel(domain.TestFailure{}, 3))
}
