package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/domain"
)

func recordRun(r *Recorder, run *domain.RunResult) {
	r.RunStarted(len(run.Results))
	for _, res := range run.Results {
		r.TestStarted(res.Suite, res.Name)
		r.TestFinished(res)
	}
	r.RunFinished(run)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	run := &domain.RunResult{
		StartedAt: time.Unix(1700000000, 0),
		Duration:  2 * time.Second,
		Results: []domain.TestResult{
			{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass, Duration: time.Millisecond},
			{Suite: "A.TestA", Name: "testTwo", Status: domain.StatusFail},
			{Suite: "C.TestC", Status: domain.StatusError},
		},
		Interrupted: true,
	}

	recordRun(r, run)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues("A.TestA", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues("A.TestA", "FAIL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues("C.TestC", "ERROR")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.runSuccess))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.runDuration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.runTimestamp))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runResults.WithLabelValues("FAIL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsInterrupted))
	// load errors carry no duration
	assert.Equal(t, 1, testutil.CollectAndCount(r.testDuration))
}

func TestRecorder_SuccessfulRun(t *testing.T) {
	r := NewRecorder()

	recordRun(r, &domain.RunResult{Results: []domain.TestResult{
		{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass},
	}})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runSuccess))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.runsInterrupted))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	recordRun(r, &domain.RunResult{Results: []domain.TestResult{
		{Suite: "A.TestA", Name: "testOne", Status: domain.StatusPass},
	}})

	path := filepath.Join(t.TempDir(), "textfile", "sctest.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sctest_tests_total{status="ok",suite="A.TestA"} 1`)
	assert.Contains(t, string(data), "sctest_last_run_success 1")
}
