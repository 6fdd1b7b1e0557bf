package commands

import (
	"github.com/spf13/cobra"

	"dbctx/internal/config"
	"dbctx/internal/storage"
	"dbctx/internal/ui"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter, viewer ui.Viewer) *ReportCommand {
	return &ReportCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := rc.storage.Load()
	if err != nil {
		return err
	}

	if rc.config.Flags.Interactive {
		return rc.viewer.View(report)
	}

	rc.formatter.PrintReport(report)
	return nil
}
