// Package suite holds the in-process test primitives: named suites of test
// methods, the T handle given to each method and the registry that maps
// identifiers to suite factories.
package suite

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"sctest/internal/domain"
)

// Test is one named test method.
type Test struct {
	Name string
	Run  func(t *T)
}

// Suite is an ordered collection of test methods sharing optional
// per-test SetUp and TearDown hooks.
type Suite struct {
	Name     string // Module.Class
	Tests    []Test
	SetUp    func(t *T)
	TearDown func(t *T)
}

// Factory builds a fresh Suite for one run.
type Factory func() (*Suite, error)

// Lookup returns the named method.
func (s *Suite) Lookup(name string) (Test, bool) {
	for _, tc := range s.Tests {
		if tc.Name == name {
			return tc, true
		}
	}
	return Test{}, false
}

// Cases lists the suite's methods in declaration order.
func (s *Suite) Cases() []domain.TestCase {
	cases := make([]domain.TestCase, 0, len(s.Tests))
	for _, tc := range s.Tests {
		cases = append(cases, domain.TestCase{Name: tc.Name, Suite: s.Name})
	}
	return cases
}

// Run executes a single method with the suite hooks and returns its result.
// Panics in the hooks or the body are recorded as ERROR.
func (s *Suite) Run(ctx context.Context, tc Test) domain.TestResult {
	t := newT(ctx, tc.Name)
	start := time.Now()

	// Any failure reported by SetUp, including a non-fatal Errorf, skips the body.
	setUpOK := s.invoke(t, s.SetUp) && !t.Failed()
	if setUpOK && !t.skipped {
		s.invoke(t, tc.Run)
	}
	s.invoke(t, s.TearDown)
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		fn := t.cleanups[i]
		s.invoke(t, func(*T) { fn() })
	}

	res := domain.TestResult{
		Suite:    s.Name,
		Name:     tc.Name,
		Duration: time.Since(start),
		Message:  strings.Join(t.output, "\n"),
	}
	switch {
	case t.errored || !setUpOK:
		res.Status = domain.StatusError
	case t.failed:
		res.Status = domain.StatusFail
	case t.skipped:
		res.Status = domain.StatusSkip
	default:
		res.Status = domain.StatusPass
	}
	return res
}

// invoke calls fn, converting panics into test state. It returns false when
// fn did not complete normally for a reason other than skip.
func (s *Suite) invoke(t *T, fn func(*T)) (ok bool) {
	if fn == nil {
		return true
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, stop := r.(stopTest); stop {
			ok = t.skipped && !t.Failed()
			return
		}
		t.errored = true
		t.Logf("panic: %v\n%s", r, debug.Stack())
		ok = false
	}()
	fn(t)
	return !t.errored
}

// LoadError builds the ERROR result reported for an identifier that could
// not be resolved or built.
func LoadError(id string, err error) domain.TestResult {
	return domain.TestResult{
		Suite:   id,
		Status:  domain.StatusError,
		Message: fmt.Sprintf("failed to load %s: %v", id, err),
	}
}
