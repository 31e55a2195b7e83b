package domain

import (
	"fmt"
	"strings"
)

// Identifier names a collection of test methods, e.g.
// "TransactionSingleOpTest.TestTransactionSingleOp". An optional third
// component selects a single method.
type Identifier struct {
	Module string
	Class  string
	Method string // empty means every method of the class
}

// ParseIdentifier splits "Module.Class" or "Module.Class.method".
func ParseIdentifier(s string) (Identifier, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	for _, p := range parts {
		if p == "" {
			return Identifier{}, fmt.Errorf("malformed test identifier %q", s)
		}
	}
	switch len(parts) {
	case 2:
		return Identifier{Module: parts[0], Class: parts[1]}, nil
	case 3:
		return Identifier{Module: parts[0], Class: parts[1], Method: parts[2]}, nil
	default:
		return Identifier{}, fmt.Errorf("malformed test identifier %q: want Module.Class[.method]", s)
	}
}

// Suite returns the "Module.Class" part used as registry key.
func (id Identifier) Suite() string {
	return id.Module + "." + id.Class
}

func (id Identifier) String() string {
	if id.Method == "" {
		return id.Suite()
	}
	return id.Suite() + "." + id.Method
}

// TestCase is a single runnable method of a suite, used for listing.
type TestCase struct {
	Name  string // method name
	Suite string // Module.Class
}

// FullName returns "Module.Class.method".
func (tc TestCase) FullName() string {
	return tc.Suite + "." + tc.Name
}
