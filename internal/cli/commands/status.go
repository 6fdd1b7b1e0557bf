package commands

import (
	"github.com/spf13/cobra"

	"dbctx/internal/config"
	"dbctx/internal/database"
	"dbctx/internal/settings"
	"dbctx/internal/suite"
	"dbctx/internal/ui"
)

// StatusCommand handles the status command
type StatusCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(cfg *config.Config, formatter *ui.Formatter) *StatusCommand {
	return &StatusCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *StatusCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd.Context(), sc.config)
	defer cancel()

	sc.config.LoadEnv()

	s, err := suite.Load(sc.config.GetConfigPath(), sc.config.Profile, sc.config.Suite)
	if err != nil {
		return err
	}
	dbSettings, err := settings.Extract(s)
	if err != nil {
		return err
	}

	manager := database.NewManager(sc.config.Connection)
	status, err := manager.Status(ctx, dbSettings.DatabaseName())
	if err != nil {
		return err
	}

	sc.formatter.PrintStatus(dbSettings.DatabaseName(), status)
	return nil
}
