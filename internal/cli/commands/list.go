package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sctest/internal/discovery"
	"sctest/internal/domain"
	"sctest/internal/execution"
	"sctest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env    func() *Env
	filter *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(env func() *Env) *ListCommand {
	return &ListCommand{
		env:    env,
		filter: discovery.NewFilter(),
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	env := lc.env()

	loader := execution.NewLoader(env.Registry, lc.filter)
	plan := loader.Load(env.Registry.Identifiers(), env.Config.Run.Filter)
	for _, le := range plan.LoadErrors() {
		env.Logger.Warn().Str("suite", le.Suite).Msg(le.Message)
	}

	listings := groupBySuite(plan.Cases())
	if len(listings) == 0 {
		color.New(color.FgYellow).Fprintln(env.Stdout, "No tests found")
		return nil
	}

	ui.PrintTestList(env.Stdout, listings, env.Config.Flags.TestCases, lc.failedNames(env))
	return nil
}

// groupBySuite folds cases, already in run order, into one listing per suite.
func groupBySuite(cases []domain.TestCase) []ui.SuiteListing {
	var listings []ui.SuiteListing
	for _, tc := range cases {
		if n := len(listings); n > 0 && listings[n-1].Name == tc.Suite {
			listings[n-1].Cases = append(listings[n-1].Cases, tc)
			continue
		}
		listings = append(listings, ui.SuiteListing{Name: tc.Suite, Cases: []domain.TestCase{tc}})
	}
	return listings
}

// failedNames marks suites and methods that failed in the last saved run.
// A missing or unreadable results file just means nothing is marked.
func (lc *ListCommand) failedNames(env *Env) map[string]struct{} {
	output, err := env.Storage.Load()
	if err != nil {
		return nil
	}
	failed := make(map[string]struct{})
	for _, f := range output.Details {
		failed[f.Suite] = struct{}{}
		if f.TestName != "" {
			failed[f.Suite+"."+f.TestName] = struct{}{}
		}
	}
	return failed
}
