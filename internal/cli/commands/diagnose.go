package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/all"
	"github.com/ccollicutt/qclog/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Analysis path existence
- Module selection
- Search pattern overrides and which logs they find
- Data directory and webhooks

Example:
  qclog diagnose qclog.yaml
  qclog diagnose -v qclog.yaml  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. Check config file existence
	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Parse config file
	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Check analysis paths
	results = append(results, checkAnalysisPaths(cfg)...)

	// 4. Check module selection
	selected, result := checkModules(cfg)
	results = append(results, result)

	// 5. Check search pattern overrides
	results = append(results, checkSearchPatterns(cfg)...)

	// 6. Run discovery against the analysis paths
	if len(selected) > 0 {
		results = append(results, checkDiscovery(ctx, cfg, selected, opts)...)
	}

	// 7. Check data directory
	results = append(results, checkDataDir(cfg))

	// 8. Check webhooks configuration
	results = append(results, checkWebhooks(cfg, opts)...)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"A config file is optional: 'qclog run <paths>' works with defaults",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Add at least analysis_paths, or drop -c to use the defaults",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Analysis paths: %d", len(cfg.AnalysisPaths)),
		fmt.Sprintf("Search pattern overrides: %d", len(cfg.SearchPatterns)),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkAnalysisPaths(cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.AnalysisPaths) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Analysis Paths",
			Status:  "warning",
			Message: "No analysis paths defined",
			Suggests: []string{
				"Pass paths on the command line: qclog run <paths>",
				"Or add analysis_paths to your config, e.g. analysis_paths: [results/]",
			},
		})
		return results
	}

	found := 0
	for _, source := range cfg.AnalysisPaths {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Analysis Path: %s", source),
		}

		if strings.ContainsAny(source, "*?[") {
			matches, err := parser.ExpandGlobs([]string{source})
			switch {
			case err != nil:
				result.Status = "error"
				result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
			case len(matches) == 1 && matches[0] == source:
				result.Status = "warning"
				result.Message = "Glob pattern matches nothing"
				result.Suggests = []string{
					"Check the pattern syntax; use ** to match nested directories",
				}
			default:
				result.Status = "ok"
				result.Message = fmt.Sprintf("Matches %d path(s)", len(matches))
				result.Details = append(result.Details, matches...)
				found += len(matches)
			}
			results = append(results, result)
			continue
		}

		info, err := os.Stat(source)
		switch {
		case os.IsNotExist(err):
			result.Status = "error"
			result.Message = "Path does not exist"
			result.Suggests = []string{"Check if the path is correct"}
		case err != nil:
			result.Status = "error"
			result.Message = fmt.Sprintf("Cannot access path: %v", err)
			result.Suggests = []string{"Check file permissions"}
		case info.IsDir():
			result.Status = "ok"
			result.Message = "Directory exists (searched recursively)"
			found++
		case info.Size() == 0:
			result.Status = "warning"
			result.Message = "File is empty (0 bytes)"
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("File exists (%s)", humanize.Bytes(uint64(info.Size())))
			found++
		}
		results = append(results, result)
	}

	if found == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Analysis Paths Summary",
			Status:  "error",
			Message: "No accessible analysis paths found",
			Suggests: []string{
				"Ensure at least one file or directory exists and is readable",
			},
		})
	}

	return results
}

func checkModules(cfg *config.Config) ([]modules.Module, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Modules",
	}

	selected, err := all.Registry().Select(cfg.Modules, cfg.ExcludeModules)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		result.Suggests = []string{"Run 'qclog modules' to list module anchors"}
		return nil, result
	}
	if len(selected) == 0 {
		result.Status = "error"
		result.Message = "modules and exclude_modules leave nothing to run"
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d module(s) enabled", len(selected))
	for _, m := range selected {
		result.Details = append(result.Details, m.Info().Anchor)
	}
	return selected, result
}

// checkSearchPatterns flags overrides for keys no module reads.
func checkSearchPatterns(cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}
	if len(cfg.SearchPatterns) == 0 {
		return results
	}

	known := discovery.DefaultPatterns()
	keys := make([]string, 0, len(cfg.SearchPatterns))
	for key := range cfg.SearchPatterns {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Search Pattern: %s", key),
		}
		if _, ok := known[key]; !ok {
			result.Status = "warning"
			result.Message = "No module reads this key"
			result.Suggests = []string{"Run 'qclog modules -v' to list search keys"}
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Overrides %d built-in pattern(s)", len(known[key]))
		}
		for _, p := range cfg.SearchPatterns[key] {
			result.Details = append(result.Details, describePattern(p))
		}
		results = append(results, result)
	}
	return results
}

// checkDiscovery runs the file search and reports what each module would
// read.
func checkDiscovery(ctx context.Context, cfg *config.Config, selected []modules.Module, opts *DiagnoseOptions) []DiagnosticResult {
	if len(cfg.AnalysisPaths) == 0 {
		return nil
	}

	result := DiagnosticResult{
		Check: "Log Discovery",
	}

	finder, err := discovery.NewFinder(cfg)
	if err != nil {
		result.Status = "error"
		result.Message = err.Error()
		return []DiagnosticResult{result}
	}

	var keys []string
	for _, m := range selected {
		keys = append(keys, m.SearchKeys()...)
	}
	found, err := finder.Find(ctx, cfg.AnalysisPaths, keys...)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Search failed: %v", err)
		return []DiagnosticResult{result}
	}

	if found.Count() == 0 {
		result.Status = "warning"
		result.Message = "No QC tool logs found in the analysis paths"
		result.Suggests = []string{
			"Use 'qclog detect <file>' to see why a log is not recognised",
		}
		return []DiagnosticResult{result}
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%s file(s) matched", humanize.Comma(int64(found.Count())))
	for _, m := range selected {
		n := 0
		for _, key := range m.SearchKeys() {
			n += len(found.Files(key))
		}
		if n > 0 || opts.Verbose {
			result.Details = append(result.Details, fmt.Sprintf("%s: %d file(s)", m.Info().Anchor, n))
		}
	}
	return []DiagnosticResult{result}
}

func checkDataDir(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Data Directory",
	}

	info, err := os.Stat(cfg.DataDir)
	switch {
	case os.IsNotExist(err):
		parent := filepath.Dir(filepath.Clean(cfg.DataDir))
		if pinfo, perr := os.Stat(parent); perr != nil || !pinfo.IsDir() {
			result.Status = "error"
			result.Message = fmt.Sprintf("Parent directory %s does not exist", parent)
			return result
		}
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s will be created (%s files)", cfg.DataDir, cfg.DataFormat)
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access %s: %v", cfg.DataDir, err)
	case !info.IsDir():
		result.Status = "error"
		result.Message = fmt.Sprintf("%s exists and is not a directory", cfg.DataDir)
		result.Suggests = []string{"Set data_dir to another path or use --no-data-dir"}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%s exists (%s files)", cfg.DataDir, cfg.DataFormat)
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== qclog Configuration Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running qclog.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func checkWebhooks(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", webhookName(wh)),
		}

		issues := []string{}
		warnings := []string{}

		if wh.URL == "" {
			issues = append(issues, "Missing url")
		} else {
			u, err := url.Parse(wh.URL)
			if err != nil {
				issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
			} else if u.Scheme != "http" && u.Scheme != "https" {
				issues = append(issues, fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme))
			} else if u.Host == "" {
				issues = append(issues, "URL must have a host")
			}
		}

		if wh.Trigger != "" {
			switch wh.Trigger {
			case config.WebhookTriggerOnSamples, config.WebhookTriggerAlways, config.WebhookTriggerNever:
			default:
				issues = append(issues, fmt.Sprintf("Invalid trigger %q (use on_samples, always, or never)", wh.Trigger))
			}
		}
		if wh.Trigger == config.WebhookTriggerNever {
			warnings = append(warnings, "Trigger is never: this webhook is disabled")
		}

		// Check if token looks like an unexpanded env var
		if strings.HasPrefix(wh.Token, "$") {
			warnings = append(warnings, fmt.Sprintf("Token appears to be an unresolved env var: %s", wh.Token))
		}

		if len(issues) > 0 {
			result.Status = "error"
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		} else if len(warnings) > 0 {
			result.Status = "warning"
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			if opts.Verbose {
				result.Details = []string{
					fmt.Sprintf("URL: %s", wh.URL),
					fmt.Sprintf("Timeout: %s", wh.Timeout),
				}
				if wh.Token != "" {
					result.Details = append(result.Details, "Token: configured")
				}
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			if wh.URL == "" {
				continue
			}
			result := checkWebhookConnectivity(wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// A HEAD request only checks the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
