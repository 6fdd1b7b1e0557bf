package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dbctx/internal/command"
	"dbctx/internal/config"
	"dbctx/internal/platform"
	"dbctx/internal/setup"
	"dbctx/internal/storage"
	"dbctx/internal/suite"
	"dbctx/internal/ui"
)

// SetupCommand handles the setup command
type SetupCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewSetupCommand creates a new SetupCommand
func NewSetupCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter) *SetupCommand {
	return &SetupCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (sc *SetupCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd.Context(), sc.config)
	defer cancel()

	sc.config.LoadEnv()

	s, err := suite.Load(sc.config.GetConfigPath(), sc.config.Profile, sc.config.Suite)
	if err != nil {
		return err
	}

	anchor, err := sc.config.GetAnchor()
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}

	client := command.NewMySQLClient(command.NewExecRunner(), sc.config.MySQLBinary, sc.config.Connection)
	client.SetImportProgress(ui.NewImportProgress)

	orchestrator := setup.NewOrchestrator(client, platform.NewDetector(anchor, sc.config.Flags.AllowUnknownPlatform))
	orchestrator.SetProgress(ui.NewAssertionProgress)
	orchestrator.SetSkipImport(sc.config.Flags.SkipImport)

	sc.formatter.PrintHeader("Preparing Testing Database")
	color.White("Suite: %s | Config: %s\n", s.Name, sc.config.GetConfigPath())

	report, runErr := orchestrator.BeforeSuite(ctx, s.Name, s)

	if err := sc.storage.Save(report); err != nil {
		log.WithError(err).Warn("failed to save setup report")
	}

	sc.formatter.PrintReport(report)
	return runErr
}

func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}
