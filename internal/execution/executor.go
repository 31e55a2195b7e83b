package execution

import "sctest/internal/domain"

// Reporter observes a run as it happens. Implementations write the
// verbose report, drive a progress bar, and so on.
type Reporter interface {
	RunStarted(total int)
	TestStarted(suite, name string)
	TestFinished(result domain.TestResult)
	RunFinished(run *domain.RunResult)
}

// Reporters fans every event out to each reporter in order.
type Reporters []Reporter

func (rs Reporters) RunStarted(total int) {
	for _, r := range rs {
		r.RunStarted(total)
	}
}

func (rs Reporters) TestStarted(suite, name string) {
	for _, r := range rs {
		r.TestStarted(suite, name)
	}
}

func (rs Reporters) TestFinished(result domain.TestResult) {
	for _, r := range rs {
		r.TestFinished(result)
	}
}

func (rs Reporters) RunFinished(run *domain.RunResult) {
	for _, r := range rs {
		r.RunFinished(run)
	}
}
