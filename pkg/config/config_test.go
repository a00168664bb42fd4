package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
analysis_paths:
  - /data/run1
modules: [hisat2, bowtie1]
ignore_samples: ["*_control"]
ignore_samples_regex: ['^Undetermined']
max_file_size: 10MB
data_format: json
bclconvert:
  genome_size: hg38_genome
librarian:
  show_general_stats: true
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.AnalysisPaths) != 1 {
		t.Errorf("AnalysisPaths = %d, want 1", len(cfg.AnalysisPaths))
	}
	if len(cfg.Modules) != 2 {
		t.Errorf("Modules = %d, want 2", len(cfg.Modules))
	}
	if cfg.DataFormat != DataFormatJSON {
		t.Errorf("DataFormat = %q, want json", cfg.DataFormat)
	}
	if cfg.MaxFileSizeBytes() != 10*1000*1000 {
		t.Errorf("MaxFileSizeBytes() = %d, want 10000000", cfg.MaxFileSizeBytes())
	}
	if len(cfg.CompiledIgnoreSamplesRegex()) != 1 {
		t.Errorf("CompiledIgnoreSamplesRegex() = %d entries, want 1", len(cfg.CompiledIgnoreSamplesRegex()))
	}
	if cfg.BCLConvert.GenomeSizeBases() != 3049315783 {
		t.Errorf("GenomeSizeBases() = %d, want 3049315783", cfg.BCLConvert.GenomeSizeBases())
	}
	if !cfg.Librarian.ShowGeneralStats {
		t.Error("Librarian.ShowGeneralStats = false, want true")
	}
	// defaults survive a partial config
	if cfg.ReadCount.Prefix != "M" {
		t.Errorf("ReadCount.Prefix = %q, want M", cfg.ReadCount.Prefix)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, DefaultDataDir)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvAnalysisPaths, "/a"+string(os.PathListSeparator)+"/b")
	t.Setenv(EnvDataFormat, "yaml")
	t.Setenv(EnvLogLevel, "debug")

	path := writeTempFile(t, "config.yaml", "data_format: tsv\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AnalysisPaths) != 2 || cfg.AnalysisPaths[1] != "/b" {
		t.Errorf("AnalysisPaths = %v, want [/a /b]", cfg.AnalysisPaths)
	}
	if cfg.DataFormat != DataFormatYAML {
		t.Errorf("DataFormat = %q, want yaml", cfg.DataFormat)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadDefault(t *testing.T) {
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	if cfg.MaxFileSizeBytes() != 50*1000*1000 {
		t.Errorf("MaxFileSizeBytes() = %d, want 50000000", cfg.MaxFileSizeBytes())
	}
	for _, r := range cfg.FnCleanExts {
		if r.Type != CleanTruncate {
			t.Errorf("default clean rule %q has type %q, want truncate", r.Pattern, r.Type)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ReadCount.Multiplier != 0.000001 || cfg.ReadCount.Desc != "millions" {
		t.Errorf("ReadCount = %+v", cfg.ReadCount)
	}
	if cfg.BaseCount.Prefix != "Mb" {
		t.Errorf("BaseCount.Prefix = %q, want Mb", cfg.BaseCount.Prefix)
	}
	if cfg.DataFormat != DataFormatTSV {
		t.Errorf("DataFormat = %q, want tsv", cfg.DataFormat)
	}
	if len(cfg.FnCleanTrim) == 0 {
		t.Error("FnCleanTrim is empty")
	}

	// mutating one default must not leak into the next
	cfg.FnCleanTrim[0] = "changed"
	if DefaultConfig().FnCleanTrim[0] == "changed" {
		t.Error("DefaultConfig() shares slices between calls")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"invalid data format", func(c *Config) { c.DataFormat = "xml" }, true},
		{"empty data format defaults", func(c *Config) { c.DataFormat = "" }, false},
		{"invalid log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"invalid max file size", func(c *Config) { c.MaxFileSize = "lots" }, true},
		{"unlimited file size", func(c *Config) { c.MaxFileSize = "" }, false},
		{"invalid sample regex", func(c *Config) { c.IgnoreSamplesRegex = []string{"(unclosed"} }, true},
		{"zero read multiplier", func(c *Config) { c.ReadCount.Multiplier = 0 }, true},
		{"negative base multiplier", func(c *Config) { c.BaseCount.Multiplier = -1 }, true},
		{"numeric genome size", func(c *Config) { c.BCLConvert.GenomeSize = "4.6e6" }, false},
		{"unknown genome preset", func(c *Config) { c.BCLConvert.GenomeSize = "hg99_genome" }, true},
		{"invalid clean rule type", func(c *Config) {
			c.FnCleanExts = []CleanRule{{Type: "chop", Pattern: ".x"}}
		}, true},
		{"invalid clean regex", func(c *Config) {
			c.FnCleanExts = []CleanRule{{Type: CleanRegex, Pattern: "(["}}
		}, true},
		{"empty search pattern", func(c *Config) {
			c.SearchPatterns = map[string][]SearchPattern{"hisat2": {{}}}
		}, true},
		{"no search patterns for key", func(c *Config) {
			c.SearchPatterns = map[string][]SearchPattern{"hisat2": {}}
		}, true},
		{"invalid search fn_re", func(c *Config) {
			c.SearchPatterns = map[string][]SearchPattern{"hisat2": {{FnRe: "(["}}}
		}, true},
		{"negative num_lines", func(c *Config) {
			c.SearchPatterns = map[string][]SearchPattern{"hisat2": {{Contents: "x", NumLines: -1}}}
		}, true},
		{"valid search override", func(c *Config) {
			c.SearchPatterns = map[string][]SearchPattern{"hisat2": {{Fn: "*.hisat2.log", ContentsRe: `^HISAT2`}}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CompilesSearchPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearchPatterns = map[string][]SearchPattern{
		"busco": {{FnRe: `^short_summary.*\.txt$`, ContentsRe: `BUSCO version is: ([\d.]+)`}},
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	p := cfg.SearchPatterns["busco"][0]
	if p.CompiledFnRe() == nil || p.CompiledContentsRe() == nil {
		t.Fatal("search pattern regexes were not compiled")
	}
	if !p.CompiledFnRe().MatchString("short_summary_sample1.txt") {
		t.Error("CompiledFnRe() did not match short_summary_sample1.txt")
	}
}

func TestCleanRule_UnmarshalYAML(t *testing.T) {
	content := `
- .fastq
- type: remove
  pattern: _R1
- type: regex
  pattern: '_S\d+$'
- pattern: .bam
`
	var rules []CleanRule
	if err := yaml.Unmarshal([]byte(content), &rules); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	want := []CleanRule{
		{Type: CleanTruncate, Pattern: ".fastq"},
		{Type: CleanRemove, Pattern: "_R1"},
		{Type: CleanRegex, Pattern: `_S\d+$`},
		{Type: CleanTruncate, Pattern: ".bam"},
	}
	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i := range want {
		if rules[i].Type != want[i].Type || rules[i].Pattern != want[i].Pattern {
			t.Errorf("rules[%d] = %+v, want %+v", i, rules[i], want[i])
		}
	}
}

func TestCleanRule_Compile(t *testing.T) {
	r := CleanRule{Type: CleanRegexKeep, Pattern: `S\d+`}
	if err := r.Compile(); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if r.Compiled() == nil {
		t.Error("Compiled() = nil for regex_keep rule")
	}

	empty := CleanRule{Type: CleanTruncate}
	if err := empty.Compile(); err == nil {
		t.Error("Compile() expected error for empty pattern")
	}
}

func TestValidate_Webhook(t *testing.T) {
	tests := []struct {
		name    string
		webhook WebhookConfig
		wantErr bool
	}{
		{"https", WebhookConfig{URL: "https://hooks.example.com/qc"}, false},
		{"http", WebhookConfig{URL: "http://localhost:8080/qc"}, false},
		{"missing url", WebhookConfig{Name: "nourl"}, true},
		{"invalid scheme", WebhookConfig{URL: "ftp://example.com"}, true},
		{"no host", WebhookConfig{URL: "https://"}, true},
		{"invalid trigger", WebhookConfig{URL: "https://example.com", Trigger: "sometimes"}, true},
		{"always", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerAlways}, false},
		{"never", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerNever}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Webhooks = []WebhookConfig{tt.webhook}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WebhookDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnSamples {
		t.Errorf("Trigger = %q, want on_samples", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Webhooks[0].Timeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain-token", "plain-token"},
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"${UNSET_QCLOG_VAR}", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	t.Setenv("QC_HOOK_TOKEN", "abc123")
	content := `
webhooks:
  - name: lab-chat
    url: https://hooks.example.com/qc
    token: ${QC_HOOK_TOKEN}
    trigger: always
    timeout: 5s
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	wh := cfg.Webhooks[0]
	if wh.Token != "abc123" {
		t.Errorf("Token = %q, want abc123", wh.Token)
	}
	if wh.Trigger != WebhookTriggerAlways {
		t.Errorf("Trigger = %q, want always", wh.Trigger)
	}
	if wh.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", wh.Timeout)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
