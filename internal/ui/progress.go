package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"dbctx/internal/command"
	"dbctx/internal/setup"
)

func theme() progressbar.Theme {
	return progressbar.Theme{
		Saucer:        color.CyanString("█"),
		SaucerHead:    color.CyanString("█"),
		SaucerPadding: "░",
		BarStart:      "│",
		BarEnd:        "│",
	}
}

// ProgressBar tracks custom assertions
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a new progress bar
func NewProgressBar(count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(
			color.CyanString("Custom assertions: ")+
				color.GreenString("[passed: 0")+
				" | "+
				color.RedString("failed: 0]"),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(theme()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// NewAssertionProgress adapts NewProgressBar to the orchestrator's factory
func NewAssertionProgress(total int) setup.Progress {
	return NewProgressBar(total)
}

// Update updates the progress bar with passed and failed counts
func (p *ProgressBar) Update(passed, failed int) {
	p.bar.Set(passed + failed)
	p.bar.Describe(
		color.CyanString("Custom assertions: ") +
			color.GreenString("[passed: %d", passed) +
			" | " +
			color.RedString("failed: %d]", failed),
	)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.bar.Finish()
}

// BytesProgress tracks a dump being streamed into the client
type BytesProgress struct {
	bar *progressbar.ProgressBar
}

// NewImportProgress creates a byte progress bar for a dump of size bytes
func NewImportProgress(size int64) command.ProgressWriter {
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(color.CyanString("Importing dump: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(theme()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &BytesProgress{bar: bar}
}

func (p *BytesProgress) Write(b []byte) (int, error) {
	return p.bar.Write(b)
}

// Finish completes the progress bar
func (p *BytesProgress) Finish() error {
	return p.bar.Finish()
}
