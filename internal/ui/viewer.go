package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"sctest/internal/domain"
)

// Viewer displays test results in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

// OutputSaver persists the results after resolved flags change.
type OutputSaver interface {
	SaveOutput(output *domain.TestResultsOutput) error
}

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	saver OutputSaver
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(saver OutputSaver) *ErrorViewer {
	return &ErrorViewer{saver: saver}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	// Track resolved test cases (by index) - load from JSON
	resolved := make(map[int]bool)
	for i, failure := range results.Details {
		if failure.Resolved {
			resolved[i] = true
		}
	}

	saveResolvedStatus := func() error {
		for i := range results.Details {
			results.Details[i].Resolved = resolved[i]
		}
		return ev.saver.SaveOutput(results)
	}

	// Create the application
	app := tview.NewApplication()

	// Create list for failed tests (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
			// When Enter is pressed, we'll show details (handled by key handler)
		})

	// Function to get formatted text for a list item
	getListItemText := func(index int) string {
		testName := failureLabel(results.Details[index], index+1)

		// Check if resolved
		isResolved := resolved[index]
		if isResolved {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, testName)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, testName)
	}

	// Function to update list item display with resolved status
	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		mainText := getListItemText(index)
		list.SetItemText(index, mainText, "")
	}

	// Add failed tests to the list with numbers and colors
	for i := range results.Details {
		mainText := getListItemText(i)
		list.AddItem(mainText, "", 0, nil)
	}

	// Set list colors for better visibility
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Create stats header view (shows path and test case info)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	// Create text view for error details (right side)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	// Create a container with right padding for the details view
	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	// Create right side layout: stats on top, details below
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// Create simple flex layout: list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	// Count unresolved tests
	countUnresolved := func() int {
		count := 0
		for i := range results.Details {
			if !resolved[i] {
				count++
			}
		}
		return count
	}

	// Create header text view (so we can update it)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	// Function to update header
	updateHeader := func() {
		unresolved := countUnresolved()
		headerText := fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", len(results.Details), unresolved)
		headerView.SetText(headerText)
	}

	// Set initial header
	updateHeader()

	// Update details when selection changes
	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]

			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	// Set up keyboard handlers for list
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					resolved[index] = !resolved[index]
					updateListItem(index)
					updateHeader()
					updateDetails()
					if err := saveResolvedStatus(); err != nil {
						headerView.SetText(fmt.Sprintf("[red] failed to save resolved status: %v ", err))
					}
				}
				return nil
			}
		}
		return event
	})

	// Set up keyboard handlers for details view
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	// Update details when list selection changes
	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	// Set initial details
	updateDetails()

	// Create main layout with title
	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(
			tview.NewBox().SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
				return x, y, width, height
			}),
			1, 0, false,
		).
		AddItem(flex, 0, 1, true)

	// Run the application
	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// failureLabel is the list entry for a failure; load errors have no method.
func failureLabel(failure domain.TestFailure, number int) string {
	switch {
	case failure.TestName != "":
		return failure.TestName
	case failure.Suite != "":
		return failure.Suite
	default:
		return fmt.Sprintf("Test %d", number)
	}
}

// formatFailureDetails formats a test failure for display using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ %s: %s[white]\n\n", failure.Status, failureLabel(failure, 0))
	fmt.Fprintf(w, "[cyan]Suite: %s[white]\n\n", failure.Suite)

	if failure.Message != "" {
		lines := strings.Split(strings.TrimRight(failure.Message, "\n"), "\n")
		fmt.Fprintf(w, "[yellow]Message:[white]\n")
		for i, line := range lines {
			if i == maxDetailLines {
				fmt.Fprintf(w, "[gray]... and %d more lines[white]\n", len(lines)-maxDetailLines)
				break
			}
			fmt.Fprintf(w, "%s\n", tview.Escape(line))
		}
	}

	w.Flush()
	return builder.String()
}

const maxDetailLines = 40

// formatFailureStats formats the stats header for a test failure
func formatFailureStats(failure domain.TestFailure, number int) string {
	suite := failure.Suite
	if suite == "" {
		suite = "Unknown suite"
	}

	return fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white]::[yellow]%s[white] [gray](%s)[white]\n",
		suite, failureLabel(failure, number), failure.Status)
}
