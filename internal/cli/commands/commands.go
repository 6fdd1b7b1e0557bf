package commands

import (
	"dbctx/internal/cli"
	"dbctx/internal/config"
	"dbctx/internal/storage"
	"dbctx/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Setup  *SetupCommand
	Detect *DetectCommand
	Status *StatusCommand
	Report *ReportCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter()
	viewer := ui.NewReportViewer()

	return &Commands{
		Setup:  NewSetupCommand(cfg, jsonStorage, formatter),
		Detect: NewDetectCommand(cfg, formatter),
		Status: NewStatusCommand(cfg, formatter),
		Report: NewReportCommand(cfg, jsonStorage, formatter, viewer),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Shared flags, applied to the config after parsing
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", config.DefaultConfigFile, "Path to the test-runner configuration file")
	pf.StringVarP(&flags.Profile, "profile", "p", config.DefaultProfile, "Configuration profile to read suites from")
	pf.StringVarP(&flags.Suite, "suite", "s", config.DefaultSuite, "Suite whose parameters hold the database settings")
	pf.StringVar(&flags.ProjectRoot, "project-root", "", "Directory platform detection starts from (defaults to the current directory)")
	pf.StringVar(&flags.MySQLBinary, "mysql-bin", config.DefaultMySQLBinary, "Path to the mysql command-line client")
	pf.StringVar(&flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warning, error)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Abort the run after this long (0 waits forever)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg.Apply(flags.ToConfigFlags())
		return cli.ConfigureLogging(cfg.LogLevel)
	}

	// Setup command
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare the testing database before the suite runs",
		Long:  "Validate the database settings, check the application points at the testing database, re-import the SQL dump and run custom assertions",
		RunE:  c.Setup.Execute,
	}
	setupCmd.Flags().BoolVar(&flags.AllowUnknownPlatform, "allow-unknown-platform", false, "Continue when no platform marker is found up to the filesystem root")
	setupCmd.Flags().BoolVar(&flags.SkipImport, "skip-import", false, "Skip recreating and importing the database for this run")
	rootCmd.AddCommand(setupCmd)

	// Detect command
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the platform that owns the project",
		Long:  "Walk upward from the project root looking for platform marker files without touching the database",
		RunE:  c.Detect.Execute,
	}
	detectCmd.Flags().BoolVar(&flags.AllowUnknownPlatform, "allow-unknown-platform", false, "Report 'none' instead of failing when no platform is found")
	rootCmd.AddCommand(detectCmd)

	// Status command
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the testing database exists on the server",
		Long:  "Connect to the MySQL server and report whether the configured testing database exists and how many tables it holds",
		RunE:  c.Status.Execute,
	}
	rootCmd.AddCommand(statusCmd)

	// Report command
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last setup report",
		Long:  "Display the steps, errors and captured client output of the last setup run",
		RunE:  c.Report.Execute,
	}
	reportCmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Open the interactive report viewer")
	rootCmd.AddCommand(reportCmd)
}
