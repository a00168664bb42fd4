package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	ConfigFile string
	Output     string
	SampleSize int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Show which modules would read a file",
		Long: `Check a single file against every search pattern and list the search keys
and modules that match, together with the sample name qclog would give it.

Useful for finding out why a log is or is not picked up by "qclog run".

Example:
  qclog detect results/s1.hisat2.log
  qclog detect -c qclog.yaml -o json Reports/Demultiplex_Stats.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file with search pattern overrides")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 5, "Number of lines to preview")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	cfg, err := loadConfig(ctx, opts.ConfigFile)
	if err != nil {
		return err
	}

	d, err := detector.New(cfg, detector.WithSampleSize(opts.SampleSize))
	if err != nil {
		return err
	}

	result, err := d.DetectFromFile(ctx, path)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result)
	case "text", "":
		return outputDetectText(cmd.OutOrStdout(), result)
	default:
		return fmt.Errorf("unknown output format %q (must be text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult) error {
	fmt.Fprintln(w, "=== QC Log Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", result.Path)
	fmt.Fprintf(w, "Sample name: %s\n", result.SampleName)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No search pattern matched.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Run 'qclog modules' to see what each module looks for,")
		fmt.Fprintln(w, "or add a search_patterns override to your config.")
	} else {
		fmt.Fprintln(w, "Matches:")
		for _, m := range result.Matches {
			if m.Module == "" {
				fmt.Fprintf(w, "  %s (no module)\n", m.Key)
				continue
			}
			fmt.Fprintf(w, "  %s -> %s [%s]\n", m.Key, m.ModuleName, m.Module)
		}
	}

	if len(result.Preview) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "--- Preview ---")
		for _, line := range result.Preview {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult) error {
	if result.Matches == nil {
		result.Matches = []detector.Match{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
