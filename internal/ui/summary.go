package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sctest/internal/domain"
)

// PrintSummary renders the run statistics as a table, followed by the list
// of failed tests grouped by suite.
func PrintSummary(w io.Writer, output *domain.TestResultsOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Test Execution Statistics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Value", Align: text.AlignRight},
	})

	t.AppendRows([]table.Row{
		{"Run ID", meta.RunID},
		{"Total Tests", meta.TotalTests},
		{"Passed", meta.PassedTests},
		{"Failures", meta.FailedTests},
		{"Errors", meta.ErroredTests},
		{"Skipped", meta.SkippedTests},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", meta.Timestamp},
	})

	if !color.NoColor {
		if meta.Successful {
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		} else {
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		}
	}
	t.Render()

	fmt.Fprintln(w)
	if meta.Successful {
		fmt.Fprintln(w, color.GreenString("✓ All tests passed!"))
		return
	}
	fmt.Fprintln(w, color.RedString("✗ %d failure(s), %d error(s)", meta.FailedTests, meta.ErroredTests))
	printFailedTestsTree(w, output.Details)
}

// printFailedTestsTree prints failures under their suite, in run order.
func printFailedTestsTree(w io.Writer, failures []domain.TestFailure) {
	var suites []string
	bySuite := make(map[string][]domain.TestFailure)
	for _, f := range failures {
		if _, ok := bySuite[f.Suite]; !ok {
			suites = append(suites, f.Suite)
		}
		bySuite[f.Suite] = append(bySuite[f.Suite], f)
	}

	for i, suite := range suites {
		lastSuite := i == len(suites)-1
		connector, indent := "├── ", "│   "
		if lastSuite {
			connector, indent = "└── ", "    "
		}
		fmt.Fprintln(w, color.CyanString("%s%s", connector, suite))

		for j, f := range bySuite[suite] {
			if f.TestName == "" {
				continue
			}
			branch := "├── "
			if j == len(bySuite[suite])-1 {
				branch = "└── "
			}
			fmt.Fprintf(w, "%s%s%s %s\n", indent, branch, color.RedString(f.TestName), color.YellowString("[%s]", f.Status))
		}
	}
}

// PrintTestList prints identifiers and, optionally, their test methods.
// Identifiers present in failed (from the last run) are marked with [F].
func PrintTestList(w io.Writer, suites []SuiteListing, showTestCases bool, failed map[string]struct{}) {
	fmt.Fprintln(w, color.GreenString("Found %d suite(s):", len(suites)))
	fmt.Fprintln(w)

	for i, s := range suites {
		lastSuite := i == len(suites)-1
		connector, indent := "├── ", "│   "
		if lastSuite {
			connector, indent = "└── ", "    "
		}

		marker := ""
		if _, ok := failed[s.Name]; ok {
			marker = " " + color.RedString("[F]")
		}
		fmt.Fprintf(w, "%s%s\n", color.CyanString("%s%s", connector, s.Name), marker)

		if !showTestCases {
			continue
		}
		if len(s.Cases) == 0 {
			fmt.Fprintf(w, "%s└── %s\n", indent, color.RedString("(no test cases found)"))
			continue
		}
		for j, tc := range s.Cases {
			branch := "├── "
			if j == len(s.Cases)-1 {
				branch = "└── "
			}
			caseMarker := ""
			if _, ok := failed[tc.FullName()]; ok {
				caseMarker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(w, "%s%s%s%s\n", indent, branch, color.YellowString(tc.Name), caseMarker)
		}
	}
}

// SuiteListing is one registered suite as shown by the list command.
type SuiteListing struct {
	Name  string
	Cases []domain.TestCase
}
