package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/pkg/modules/all"
	"github.com/ccollicutt/qclog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a qclog configuration file without running any module.

Checks:
  - YAML syntax
  - Regex and glob validity
  - Data format, genome size and webhook settings
  - Module names in modules and exclude_modules
  - Analysis path existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	selected, err := all.Registry().Select(cfg.Modules, cfg.ExcludeModules)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Analysis paths: %d pattern(s)\n", len(cfg.AnalysisPaths))
	fmt.Fprintf(w, "  Modules:        %d\n", len(selected))
	fmt.Fprintf(w, "  Data files:     %s (%s)\n", cfg.DataDir, cfg.DataFormat)
	fmt.Fprintf(w, "  Webhooks:       %d\n", len(cfg.Webhooks))

	if len(cfg.AnalysisPaths) == 0 {
		return nil
	}

	// Analysis paths are checked as warnings only
	paths, err := parser.ExpandGlobs(cfg.AnalysisPaths)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding analysis paths: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "\nAnalysis paths:\n")
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			fmt.Fprintf(w, "  - %s (warning: not found)\n", p)
			continue
		}
		fmt.Fprintf(w, "  - %s\n", p)
	}

	return nil
}
