package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"dbctx/internal/database"
	"dbctx/internal/domain"
	"dbctx/internal/platform"
)

// Formatter formats and displays output
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintHeader prints a boxed title
func (f *Formatter) PrintHeader(title string) {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║%s║", center(title, 60))
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")
}

// PrintReport displays a setup report as a table followed by the failure, if any
func (f *Formatter) PrintReport(report *domain.SetupReport) {
	meta := report.Meta

	f.PrintHeader("Testing Database Setup")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Suite", meta.Suite)
	f.row("Database", meta.DatabaseName)
	f.row("Platform", meta.Platform)
	f.row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds))
	f.row("Timestamp", meta.Timestamp)
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")
	fmt.Println()

	for _, step := range report.Steps {
		f.printStep(step)
	}

	fmt.Println()
	if meta.Success {
		color.Green("✓ Testing database is ready")
		return
	}

	failed := report.FailedStep()
	if failed == nil {
		color.Red("✗ Setup failed")
		return
	}
	color.Red("✗ Setup failed at step '%s' (%s)", failed.Name, failed.ErrorKind)
	color.White("  %s", failed.Error)
	if len(failed.Output) > 0 {
		fmt.Println()
		for _, line := range failed.Output {
			color.Yellow("  %s", line)
		}
	}
}

// PrintDetection displays a platform detection result
func (f *Formatter) PrintDetection(d platform.Detection) {
	if d.Kind == platform.None {
		color.Yellow("No platform detected")
		return
	}
	color.Green("✓ %s detected", d.Kind)
	color.White("  Project root: %s", d.ProjectRoot)
}

// PrintStatus displays the state of the testing database on the server
func (f *Formatter) PrintStatus(name string, status database.Status) {
	f.PrintHeader("Testing Database Status")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Server", status.Server)
	f.row("Database", name)
	if status.Exists {
		f.row("Exists", "yes")
		f.row("Tables", fmt.Sprintf("%d", status.Tables))
	} else {
		f.row("Exists", "no")
	}
	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")
}

func (f *Formatter) row(label, value string) {
	fmt.Printf("│ %-31s │ ", label)
	color.White("%-27s │", value)
}

func (f *Formatter) printStep(step domain.StepReport) {
	detail := ""
	if step.Detail != "" {
		detail = " " + color.HiBlackString(step.Detail)
	}

	switch step.Status {
	case domain.StepPassed:
		fmt.Printf("%s %-14s %8s%s\n", color.GreenString("✓"), step.Name, step.Duration, detail)
	case domain.StepFailed:
		fmt.Printf("%s %-14s %8s%s\n", color.RedString("✗"), step.Name, step.Duration, detail)
	default:
		fmt.Printf("%s %-14s %8s\n", color.YellowString("-"), step.Name, "skipped")
	}
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
