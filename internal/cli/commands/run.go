package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/pkg/analyzer"
	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/logger"
	"github.com/ccollicutt/qclog/pkg/output"
	"github.com/ccollicutt/qclog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	ConfigFile    string
	Output        string
	DataDir       string
	DataFormat    string
	NoDataDir     bool
	Modules       []string
	Exclude       []string
	IgnoreSamples []string
	Verbose       bool
	Quiet         bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Search paths for QC tool logs and report on them",
		Long: `Search files, directories or glob patterns for the output of supported
QC tools, parse every log found and print a report.

Paths default to analysis_paths from the configuration file. Per-module data
files are written to the data directory unless --no-data-dir is given.

Exit codes:
  0 - At least one module found samples
  1 - No samples found
  2 - Configuration or runtime error`,
		Example: `  qclog run .
  qclog run -c qclog.yaml -m hisat2 -m bowtie1 results/
  qclog run --data-format json -o json 'runs/**/Reports'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", "", "Directory for data files (default qclog_data)")
	cmd.Flags().StringVar(&opts.DataFormat, "data-format", "", "Data file format (tsv|json|yaml)")
	cmd.Flags().BoolVar(&opts.NoDataDir, "no-data-dir", false, "Do not write data files")
	cmd.Flags().StringSliceVarP(&opts.Modules, "module", "m", nil, "Run specific module(s) only (can be repeated)")
	cmd.Flags().StringSliceVarP(&opts.Exclude, "exclude", "e", nil, "Skip module(s) (can be repeated)")
	cmd.Flags().StringSliceVar(&opts.IgnoreSamples, "ignore-samples", nil, "Sample name globs to drop (can be repeated)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show sections, data files and sources")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnSamples), "When to fire webhook (on_samples|always|never)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.ConfigFile)
	if err != nil {
		return err
	}
	if err := applyRunFlags(cfg, opts); err != nil {
		return err
	}
	if err := configureLogger(cmd, cfg); err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.AnalysisPaths
	}
	if len(paths) == 0 {
		return errors.New("no analysis paths given (pass paths or set analysis_paths)")
	}

	hooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	analyzerOpts := []analyzer.AnalyzerOption{
		analyzer.WithModuleFilter(opts.Modules),
		analyzer.WithExcludeModules(opts.Exclude),
		analyzer.WithIgnoreSamples(opts.IgnoreSamples),
		analyzer.WithConfigFile(opts.ConfigFile),
	}
	if !opts.NoDataDir {
		w := output.NewDataWriter(cfg.DataDir, cfg.DataFormat)
		analyzerOpts = append(analyzerOpts, analyzer.WithDataWriter(w, w.Dir()))
	}

	a, err := analyzer.NewAnalyzer(cfg, analyzerOpts...)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	rep, err := a.Analyze(ctx, paths)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := formatter.Format(ctx, rep, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the run
	webhook.NewClient().SendAll(ctx, rep, hooks)

	if !rep.HasSamples() {
		ExitCode = 1
	}
	return nil
}

// loadConfig loads path, or the defaults when path is empty.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		return config.LoadDefault()
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyRunFlags overrides config values with the data file flags.
func applyRunFlags(cfg *config.Config, opts *RunOptions) error {
	if opts.DataDir == "" && opts.DataFormat == "" {
		return nil
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.DataFormat != "" {
		cfg.DataFormat = config.DataFormat(opts.DataFormat)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// configureLogger initializes the logger from cfg. The global --log-level
// and --log-format flags win when given.
func configureLogger(cmd *cobra.Command, cfg *config.Config) error {
	level, format := cfg.LogLevel, cfg.LogFormat
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		level = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil && f.Changed {
		format = f.Value.String()
	}
	if level == "" {
		level = config.DefaultLogLevel
	}
	return logger.Initialize(level, format, cmd.ErrOrStderr())
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *RunOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL == "" {
		return webhooks, nil
	}

	trigger := config.WebhookTrigger(opts.WebhookTrigger)
	switch trigger {
	case "":
		trigger = config.WebhookTriggerOnSamples
	case config.WebhookTriggerOnSamples, config.WebhookTriggerAlways, config.WebhookTriggerNever:
	default:
		return nil, fmt.Errorf("invalid --webhook-trigger %q (use on_samples, always, or never)", opts.WebhookTrigger)
	}

	return append(webhooks, config.WebhookConfig{
		Name:    "cli",
		URL:     opts.WebhookURL,
		Token:   opts.WebhookToken,
		Trigger: trigger,
		Timeout: config.DefaultWebhookTimeout,
	}), nil
}
