// Package cli provides the command-line interface for qclog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/internal/cli/commands"
	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/logger"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return execute(NewRootCommand(), os.Args[1:])
}

func execute(rootCmd *cobra.Command, args []string) int {
	commands.ExitCode = 0
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "qclog",
		Short: "Summarise bioinformatics QC tool logs",
		Long: `qclog searches directories for the logs and reports of bioinformatics QC
tools, parses them and summarises the results per sample.

Supported tools include BCL Convert, HISAT2, Bowtie 1, BUSCO, AfterQC,
Filtlong, DIAMOND, leeHom, OptiType and more; run 'qclog modules' for the
full list.

Every module writes its parsed values to a data file (TSV, JSON or YAML)
and contributes columns to a general statistics table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Initialize(logLevel, logFormat, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "Log format (text|json)")

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewModulesCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
