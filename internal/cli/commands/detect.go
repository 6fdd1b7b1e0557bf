package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dbctx/internal/config"
	"dbctx/internal/platform"
	"dbctx/internal/ui"
)

// DetectCommand handles the detect command
type DetectCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewDetectCommand creates a new DetectCommand
func NewDetectCommand(cfg *config.Config, formatter *ui.Formatter) *DetectCommand {
	return &DetectCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (dc *DetectCommand) Execute(cmd *cobra.Command, args []string) error {
	anchor, err := dc.config.GetAnchor()
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}

	detection, err := platform.NewDetector(anchor, dc.config.Flags.AllowUnknownPlatform).Detect()
	if err != nil {
		return err
	}

	dc.formatter.PrintDetection(detection)
	return nil
}
