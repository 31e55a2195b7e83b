package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"sctest/internal/domain"
)

// Verbosity levels of the text report.
const (
	VerbosityQuiet    = 0 // summary only
	VerbosityProgress = 1 // progress bar, then summary
	VerbosityVerbose  = 2 // one line per test
)

const (
	separator1 = "======================================================================"
	separator2 = "----------------------------------------------------------------------"
)

// TextReporter writes the classic verbose test report:
//
//	testWrite1 (TransactionSingleOpTest.TestTransactionSingleOp) ... ok
//
// followed by one detail block per failure and the "Ran N tests" footer.
type TextReporter struct {
	w         io.Writer
	verbosity int
}

// NewTextReporter creates a new TextReporter
func NewTextReporter(w io.Writer, verbosity int) *TextReporter {
	return &TextReporter{w: w, verbosity: verbosity}
}

func (r *TextReporter) RunStarted(int) {}

func (r *TextReporter) TestStarted(suite, name string) {
	if r.verbosity < VerbosityVerbose {
		return
	}
	fmt.Fprintf(r.w, "%s ... ", describe(suite, name))
}

func (r *TextReporter) TestFinished(res domain.TestResult) {
	if r.verbosity < VerbosityVerbose {
		return
	}
	switch res.Status {
	case domain.StatusPass:
		fmt.Fprintln(r.w, color.GreenString("ok"))
	case domain.StatusFail:
		fmt.Fprintln(r.w, color.RedString("FAIL"))
	case domain.StatusError:
		fmt.Fprintln(r.w, color.RedString("ERROR"))
	case domain.StatusSkip:
		fmt.Fprintln(r.w, color.YellowString("skipped %q", res.Message))
	}
}

func (r *TextReporter) RunFinished(run *domain.RunResult) {
	if r.verbosity >= VerbosityVerbose {
		fmt.Fprintln(r.w)
	}

	// Errors first, then failures.
	r.printErrorList(run, domain.StatusError)
	r.printErrorList(run, domain.StatusFail)

	fmt.Fprintln(r.w, separator2)
	fmt.Fprintf(r.w, "Ran %d %s in %.3fs\n\n", len(run.Results), plural(len(run.Results)), run.Duration.Seconds())

	_, failures, errs, skipped := run.Counts()

	var infos []string
	if failures > 0 {
		infos = append(infos, fmt.Sprintf("failures=%d", failures))
	}
	if errs > 0 {
		infos = append(infos, fmt.Sprintf("errors=%d", errs))
	}
	if skipped > 0 {
		infos = append(infos, fmt.Sprintf("skipped=%d", skipped))
	}
	if run.Cancelled {
		infos = append(infos, "interrupted")
	}

	status := color.GreenString("OK")
	if !run.WasSuccessful() {
		status = color.RedString("FAILED")
	}
	if len(infos) > 0 {
		fmt.Fprintf(r.w, "%s (%s)\n", status, strings.Join(infos, ", "))
	} else {
		fmt.Fprintln(r.w, status)
	}
}

func (r *TextReporter) printErrorList(run *domain.RunResult, status domain.Status) {
	for _, res := range run.Results {
		if res.Status != status {
			continue
		}
		fmt.Fprintln(r.w, separator1)
		fmt.Fprintf(r.w, "%s: %s\n", color.RedString(string(status)), describe(res.Suite, res.Name))
		fmt.Fprintln(r.w, separator2)
		fmt.Fprintln(r.w, strings.TrimRight(res.Message, "\n"))
		fmt.Fprintln(r.w)
	}
}

// describe renders "method (Module.Class)"; load errors have no method.
func describe(suite, name string) string {
	if name == "" {
		return suite
	}
	return fmt.Sprintf("%s (%s)", name, suite)
}

func plural(n int) string {
	if n == 1 {
		return "test"
	}
	return "tests"
}
