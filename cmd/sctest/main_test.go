package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/domain"
	"sctest/internal/scalaris/scalaristest"
)

type outcome struct {
	code   int
	stdout string
	stderr string
}

// execute runs the binary's entry point inside an empty working directory.
func execute(t *testing.T, args ...string) outcome {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return outcome{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_ExitCodes(t *testing.T) {
	srv := scalaristest.NewServer()
	defer srv.Close()

	tests := []struct {
		name      string
		args      []string
		code      int
		stdout    string
		errorLine bool
	}{
		{
			name:   "all pass",
			args:   []string{"run", "--url", srv.URL, "TransactionSingleOpTest.TestTransactionSingleOp"},
			code:   domain.ExitSuccess,
			stdout: "\nOK\n",
		},
		{
			name:   "failing identifier",
			args:   []string{"run", "--url", "http://127.0.0.1:1", "TransactionTest.TestTransaction.testWrite"},
			code:   domain.ExitFailure,
			stdout: "FAILED (",
		},
		{
			name:   "unknown identifier",
			args:   []string{"--url", srv.URL, "Missing.TestMissing"},
			code:   domain.ExitFailure,
			stdout: "ERROR: Missing.TestMissing",
		},
		{
			name:      "invalid configuration",
			args:      []string{"run", "-v", "7"},
			code:      domain.ExitFailure,
			errorLine: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCALARIS_JSON_URL", "")
			out := execute(t, tt.args...)

			assert.Equal(t, tt.code, out.code, out.stdout)
			assert.Contains(t, out.stdout, tt.stdout)
			if tt.errorLine {
				assert.Contains(t, out.stderr, "Error: configuration")
			} else {
				assert.NotContains(t, out.stderr, "Error:")
			}
		})
	}
}

func TestRun_BareInvocationRunsDefaultSuites(t *testing.T) {
	srv := scalaristest.NewServer()
	defer srv.Close()
	t.Setenv("SCALARIS_JSON_URL", srv.URL)

	out := execute(t)

	assert.Equal(t, domain.ExitSuccess, out.code, out.stdout)
	assert.Contains(t, out.stdout, "(TransactionSingleOpTest.TestTransactionSingleOp) ... ok")
	assert.Contains(t, out.stdout, "(PubSubTest.TestPubSub) ... ")
	assert.Contains(t, out.stdout, "Ran ")
	assert.NotEmpty(t, srv.Calls())

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(wd, "storage", "test-results.json"))
}

func TestRun_BareInvocationFailsWithoutNode(t *testing.T) {
	t.Setenv("SCALARIS_JSON_URL", "http://127.0.0.1:1")

	out := execute(t, "--fail-fast")

	assert.Equal(t, domain.ExitFailure, out.code)
	assert.Contains(t, out.stdout, "FAILED")
}
