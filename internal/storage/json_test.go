package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/domain"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage", "test-results.json")
	st := NewJSONStorage(path)

	run := &domain.RunResult{
		ID:        "run-1",
		StartedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Duration:  time.Second,
		Results: []domain.TestResult{
			{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass},
			{Suite: "A.TestA", Name: "testTwo", Status: domain.StatusFail, Message: "boom"},
		},
	}

	saved, err := st.Save(run)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Meta.FailedTests)

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	require.Len(t, loaded.Details, 1)
	assert.Equal(t, "testTwo", loaded.Details[0].TestName)
}

func TestJSONStorage_SaveOutputKeepsResolved(t *testing.T) {
	st := NewJSONStorage(filepath.Join(t.TempDir(), "results.json"))

	out := &domain.TestResultsOutput{
		Details: []domain.TestFailure{{TestName: "testTwo", Suite: "A.TestA", Status: domain.StatusFail}},
	}
	out.Details[0].Resolved = true
	require.NoError(t, st.SaveOutput(out))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Details[0].Resolved)
}

func TestJSONStorage_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewJSONStorage(filepath.Join(dir, "missing.json")).Load()
	assert.ErrorContains(t, err, "read results file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = NewJSONStorage(bad).Load()
	assert.ErrorContains(t, err, "parse results")
}
