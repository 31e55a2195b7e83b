package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	names := []string{
		"TransactionSingleOpTest.TestTransactionSingleOp.testWrite1",
		"TransactionSingleOpTest.TestTransactionSingleOp.testRead_NotFound",
		"TransactionTest.TestTransaction.testWrite",
		"PubSubTest.TestPubSub.testPublish1",
	}

	tests := []struct {
		name     string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			pattern:  "",
			expected: 4,
		},
		{
			name:     "wildcard on method name",
			pattern:  "testWrite*",
			expected: 2,
		},
		{
			name:     "wildcard on full name",
			pattern:  "TransactionTest.*",
			expected: 1,
		},
		{
			name:     "wildcard substring",
			pattern:  "*Transaction*",
			expected: 3,
		},
		{
			name:     "fragments must appear in order",
			pattern:  "*PubSub*Write*",
			expected: 0,
		},
		{
			name:     "simple contains match",
			pattern:  "NotFound",
			expected: 1,
		},
		{
			name:     "single character wildcard",
			pattern:  "testPublish?",
			expected: 1,
		},
		{
			name:     "no matches",
			pattern:  "*NonExistent*",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(names, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d: %v", tt.expected, len(result), result)
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty name list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "test*")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("single wildcard matches everything", func(t *testing.T) {
		result := filter.FilterByName([]string{"A.B.testX"}, "*")
		if len(result) != 1 {
			t.Errorf("expected 1 match, got %d", len(result))
		}
	})
}
