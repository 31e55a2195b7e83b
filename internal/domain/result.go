package domain

import "time"

// Exit codes of the sctest binary.
const (
	ExitSuccess = 0 // every test passed
	ExitFailure = 1 // at least one failure, error or load error
)

// Status is the outcome of one executed test.
type Status string

const (
	StatusPass  Status = "ok"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
	StatusSkip  Status = "skipped"
)

// Failed reports whether the status breaks the run.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusError
}

// TestResult represents the result of executing a single test method.
type TestResult struct {
	Suite    string        `json:"suite"`   // Module.Class
	Name     string        `json:"name"`    // method name, empty for load errors
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// FullName returns "Module.Class.method", or just the suite for load errors.
func (r TestResult) FullName() string {
	if r.Name == "" {
		return r.Suite
	}
	return r.Suite + "." + r.Name
}

// RunResult is the aggregate outcome of one run.
type RunResult struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []TestResult  `json:"results"`
	// Interrupted is set when the run stopped before every test executed,
	// either through fail-fast or context cancellation.
	Interrupted bool `json:"interrupted,omitempty"`
	Cancelled   bool `json:"cancelled,omitempty"`
}

// Counts tallies results by status.
func (r *RunResult) Counts() (passed, failures, errors, skipped int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failures++
		case StatusError:
			errors++
		case StatusSkip:
			skipped++
		}
	}
	return passed, failures, errors, skipped
}

// WasSuccessful is true only when no test failed or errored and the run
// was not cancelled.
func (r *RunResult) WasSuccessful() bool {
	if r.Cancelled {
		return false
	}
	for _, res := range r.Results {
		if res.Status.Failed() {
			return false
		}
	}
	return true
}

// ExitCode maps the aggregate outcome to a process exit status.
func (r *RunResult) ExitCode() int {
	if r.WasSuccessful() {
		return ExitSuccess
	}
	return ExitFailure
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	ErroredTests    int     `json:"errored_tests"`
	SkippedTests    int     `json:"skipped_tests"`
	Successful      bool    `json:"successful"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}

// NewTestResultsOutput summarizes a run into the persisted form: aggregate
// counts plus every failure and error.
func NewTestResultsOutput(run *RunResult) *TestResultsOutput {
	passed, failures, errs, skipped := run.Counts()
	return &TestResultsOutput{
		Meta: TestResultsMeta{
			RunID:           run.ID,
			TotalTests:      len(run.Results),
			PassedTests:     passed,
			FailedTests:     failures,
			ErroredTests:    errs,
			SkippedTests:    skipped,
			Successful:      run.WasSuccessful(),
			Duration:        run.Duration.String(),
			DurationSeconds: run.Duration.Seconds(),
			Timestamp:       run.StartedAt.Format(time.RFC3339),
		},
		Details: FailuresOf(run),
	}
}
