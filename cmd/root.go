package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootLogger *zap.Logger
	configPath string
	debugMode  bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "codedoc",
	Short: "codedoc renders a source directory into a single document",
	Long: `codedoc walks a project directory, filters its files through glob
patterns, ignore-file rules and size limits, and renders the selected files
into a single Markdown, plain-text or XML document.`,
	SilenceUsage: true,
}

// Execute wires the logger into the command tree and runs it.
func Execute(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootLogger = logger
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an explicit codedoc.yaml")
	RootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}
