package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"dbctx/internal/domain"
)

// ReportViewer displays setup steps and their captured output in a TUI
type ReportViewer struct{}

// NewReportViewer creates a new ReportViewer
func NewReportViewer() *ReportViewer {
	return &ReportViewer{}
}

// View displays the report in an interactive TUI
func (rv *ReportViewer) View(report *domain.SetupReport) error {
	if len(report.Steps) == 0 {
		color.Yellow("The last setup run recorded no steps")
		return nil
	}

	app := tview.NewApplication()

	// Steps on the left
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, step := range report.Steps {
		list.AddItem(StepListText(i, step), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	// Details on the right
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsContainer, 0, 2, false)

	status := "[green]ready"
	if !report.Meta.Success {
		status = "[red]failed"
	}
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Suite %s | database %s | %s[white] | ↑↓ navigate, → details, ← back, q quit ",
			report.Meta.Suite, report.Meta.DatabaseName, status))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(report.Steps) {
			detailsView.SetText(StepDetails(report.Steps[index]))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC, tcell.KeyEsc:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

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

	// Start on the failed step when there is one
	for i, step := range report.Steps {
		if step.Status == domain.StepFailed {
			list.SetCurrentItem(i)
			break
		}
	}
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// StepListText formats a list entry using tview color tags
func StepListText(index int, step domain.StepReport) string {
	switch step.Status {
	case domain.StepPassed:
		return fmt.Sprintf("[green]✓ [yellow]%d.[white] %s", index+1, step.Name)
	case domain.StepFailed:
		return fmt.Sprintf("[red]✗ [yellow]%d.[white] %s", index+1, step.Name)
	default:
		return fmt.Sprintf("[gray]- %d. %s[white]", index+1, step.Name)
	}
}

// StepDetails formats a step for the details pane
func StepDetails(step domain.StepReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[cyan]Step:[white] %s\n", tview.Escape(step.Name))
	fmt.Fprintf(&b, "[cyan]Status:[white] %s\n", step.Status)
	fmt.Fprintf(&b, "[cyan]Duration:[white] %s\n\n", step.Duration)

	if step.Detail != "" {
		fmt.Fprintf(&b, "[yellow]Detail:[white]\n%s\n\n", tview.Escape(step.Detail))
	}
	if step.Error != "" {
		fmt.Fprintf(&b, "[red]%s:[white]\n%s\n\n", step.ErrorKind, tview.Escape(step.Error))
	}
	if len(step.Output) > 0 {
		fmt.Fprintf(&b, "[yellow]Output:[white]\n")
		for _, line := range step.Output {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}

	return b.String()
}
