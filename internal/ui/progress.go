package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"sctest/internal/domain"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar writing to w
func NewProgressBar(count int, w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describeProgress(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	p.bar.Describe(describeProgress(successCount, failCount))
	_ = p.bar.Set(successCount + failCount)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func describeProgress(successCount, failCount int) string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[success: %d", successCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}

// ProgressReporter drives a ProgressBar from run events. Skipped tests
// count as successes.
type ProgressReporter struct {
	w       io.Writer
	bar     *ProgressBar
	success int
	failed  int
}

// NewProgressReporter creates a new ProgressReporter
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{w: w}
}

func (p *ProgressReporter) RunStarted(total int) {
	p.success, p.failed = 0, 0
	p.bar = NewProgressBar(total, p.w)
}

func (p *ProgressReporter) TestStarted(string, string) {}

func (p *ProgressReporter) TestFinished(res domain.TestResult) {
	if res.Status.Failed() {
		p.failed++
	} else {
		p.success++
	}
	if p.bar != nil {
		p.bar.Update(p.success, p.failed)
	}
}

func (p *ProgressReporter) RunFinished(*domain.RunResult) {
	if p.bar != nil {
		p.bar.Finish()
	}
}
