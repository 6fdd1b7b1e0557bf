package ui

import "dbctx/internal/domain"

// Viewer displays a setup report in an interactive TUI
type Viewer interface {
	View(report *domain.SetupReport) error
}
