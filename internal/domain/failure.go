package domain

// TestFailure represents a failed or errored test case
type TestFailure struct {
	TestName string `json:"test_name"`
	Suite    string `json:"suite"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// FailuresOf collects every FAIL/ERROR result of a run, in run order.
func FailuresOf(run *RunResult) []TestFailure {
	var failures []TestFailure
	for _, r := range run.Results {
		if !r.Status.Failed() {
			continue
		}
		failures = append(failures, TestFailure{
			TestName: r.Name,
			Suite:    r.Suite,
			Status:   r.Status,
			Message:  r.Message,
		})
	}
	return failures
}
