package discovery

import (
	"path/filepath"
	"strings"
)

// Filter filters test names by pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters fully-qualified test names ("Module.Class.method")
// by a wildcard pattern. The pattern is tried against the full name and
// against the method name alone, so "testWrite*" and
// "*TransactionTest*" both work.
func (f *Filter) FilterByName(names []string, pattern string) []string {
	if pattern == "" {
		return names
	}

	var filtered []string
	for _, name := range names {
		if f.matches(name, pattern) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func (f *Filter) matches(name, pattern string) bool {
	method := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		method = name[i+1:]
	}

	// filepath.Match supports * and ?; names contain no separators
	for _, candidate := range []string{name, method} {
		if matched, err := filepath.Match(pattern, candidate); err == nil && matched {
			return true
		}
	}

	if strings.Contains(pattern, "*") {
		// Every non-empty fragment between wildcards must appear, in order.
		rest := name
		hasFragment := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasFragment = true
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return hasFragment
	}

	// No wildcards: plain substring match
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
