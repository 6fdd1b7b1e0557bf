package main

import (
	"fmt"
	"os"

	"dbctx/internal/apperror"
	"dbctx/internal/cli"
	"dbctx/internal/cli/commands"
	"dbctx/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "dbctx",
		Short: "Acceptance-test database preparation",
		Long: `Prepare the testing database before an acceptance-test suite runs.
Reads the database settings from behat.yml, checks the application points at the testing database,
re-imports the SQL dump and runs custom SQL assertions.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		if appErr, ok := apperror.As(err); ok {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", appErr.Kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
