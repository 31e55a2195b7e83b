package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sctest/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	env func() *Env
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(env func() *Env) *FaillsCommand {
	return &FaillsCommand{env: env}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	env := fc.env()
	results, err := env.Storage.Load()
	if err != nil {
		return fmt.Errorf("no results at %s, run the suites first: %w", env.Storage.Path(), err)
	}

	return ui.NewErrorViewer(env.Storage).View(results)
}
