package execution

import (
	"sctest/internal/discovery"
	"sctest/internal/domain"
	"sctest/internal/suite"
)

// entry is one position of the run plan: either a resolved suite or the
// load error that stands in for an identifier that could not be resolved.
type entry struct {
	id      string
	suite   *suite.Suite
	loadErr *domain.TestResult
}

// Plan is the ordered, resolved form of an identifier list.
type Plan struct {
	entries []entry
}

// Total counts tests plus load errors, i.e. the number of results a full
// run will produce.
func (p *Plan) Total() int {
	n := 0
	for _, e := range p.entries {
		if e.loadErr != nil {
			n++
			continue
		}
		n += len(e.suite.Tests)
	}
	return n
}

// Cases lists the resolved test cases in run order.
func (p *Plan) Cases() []domain.TestCase {
	var cases []domain.TestCase
	for _, e := range p.entries {
		if e.suite != nil {
			cases = append(cases, e.suite.Cases()...)
		}
	}
	return cases
}

// LoadErrors returns the ERROR results of identifiers that failed to resolve.
func (p *Plan) LoadErrors() []domain.TestResult {
	var out []domain.TestResult
	for _, e := range p.entries {
		if e.loadErr != nil {
			out = append(out, *e.loadErr)
		}
	}
	return out
}

// Loader resolves identifiers against a registry.
type Loader struct {
	registry *suite.Registry
	filter   *discovery.Filter
}

// NewLoader creates a new Loader
func NewLoader(reg *suite.Registry, filter *discovery.Filter) *Loader {
	return &Loader{registry: reg, filter: filter}
}

// Load resolves ids in order. An identifier that cannot be parsed or
// resolved becomes a load error at its position; it is never dropped.
// pattern, when set, keeps only matching methods.
func (l *Loader) Load(ids []string, pattern string) *Plan {
	plan := &Plan{}
	for _, raw := range ids {
		id, err := domain.ParseIdentifier(raw)
		if err != nil {
			res := suite.LoadError(raw, err)
			plan.entries = append(plan.entries, entry{id: raw, loadErr: &res})
			continue
		}
		s, err := l.registry.Resolve(id)
		if err != nil {
			res := suite.LoadError(raw, err)
			plan.entries = append(plan.entries, entry{id: raw, loadErr: &res})
			continue
		}
		if pattern != "" && l.filter != nil {
			s = l.filterSuite(s, pattern)
		}
		plan.entries = append(plan.entries, entry{id: raw, suite: s})
	}
	return plan
}

func (l *Loader) filterSuite(s *suite.Suite, pattern string) *suite.Suite {
	names := make([]string, len(s.Tests))
	for i, tc := range s.Tests {
		names[i] = s.Name + "." + tc.Name
	}
	keep := make(map[string]bool)
	for _, n := range l.filter.FilterByName(names, pattern) {
		keep[n] = true
	}

	filtered := *s
	filtered.Tests = nil
	for _, tc := range s.Tests {
		if keep[s.Name+"."+tc.Name] {
			filtered.Tests = append(filtered.Tests, tc)
		}
	}
	return &filtered
}
