// Package config provides configuration loading and validation for qclog.
package config

import (
	"fmt"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// AnalysisPaths are files, directories or glob patterns to search.
	AnalysisPaths []string `yaml:"analysis_paths"`

	// Modules restricts the run to the named modules (anchors). Empty means all.
	Modules []string `yaml:"modules,omitempty"`

	// ExcludeModules skips the named modules.
	ExcludeModules []string `yaml:"exclude_modules,omitempty"`

	// IgnoreFiles are filename globs never handed to any module.
	IgnoreFiles []string `yaml:"ignore_files,omitempty"`

	// IgnoreDirs are directory name globs that are not descended into.
	IgnoreDirs []string `yaml:"ignore_dirs,omitempty"`

	// IgnoreSamples are sample name globs dropped from every module's results.
	IgnoreSamples []string `yaml:"ignore_samples,omitempty"`

	// IgnoreSamplesRegex are sample name regexes dropped from every module's results.
	IgnoreSamplesRegex []string `yaml:"ignore_samples_regex,omitempty"`

	// FnCleanExts are applied in order to turn a filename into a sample name.
	FnCleanExts []CleanRule `yaml:"fn_clean_exts,omitempty"`

	// FnCleanTrim are stripped once from either end of a cleaned sample name.
	FnCleanTrim []string `yaml:"fn_clean_trim,omitempty"`

	// PrependDirs prefixes sample names with their parent directory.
	PrependDirs bool `yaml:"prepend_dirs,omitempty"`

	// MaxFileSize skips larger files during discovery (e.g. "50MB").
	MaxFileSize string `yaml:"max_file_size,omitempty"`

	// SearchPatterns replaces the built-in patterns for the given search keys.
	SearchPatterns map[string][]SearchPattern `yaml:"search_patterns,omitempty"`

	ReadCount CountConfig `yaml:"read_count"`
	BaseCount CountConfig `yaml:"base_count"`

	// DataDir is where per-module data files are written.
	DataDir string `yaml:"data_dir,omitempty"`

	// DataFormat selects the data file encoding.
	DataFormat DataFormat `yaml:"data_format,omitempty"`

	BCLConvert BCLConvertConfig `yaml:"bclconvert,omitempty"`
	Librarian  LibrarianConfig  `yaml:"librarian,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// LogLevel and LogFormat configure pkg/logger when no CLI flag is given.
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`

	// populated during validation
	maxFileSizeBytes   uint64
	ignoreSamplesRegex []*regexp.Regexp
}

// MaxFileSizeBytes returns the parsed file size limit (0 means unlimited).
func (c *Config) MaxFileSizeBytes() uint64 {
	return c.maxFileSizeBytes
}

// CompiledIgnoreSamplesRegex returns the compiled sample ignore regexes.
func (c *Config) CompiledIgnoreSamplesRegex() []*regexp.Regexp {
	return c.ignoreSamplesRegex
}

// SearchPattern describes how to recognise a tool's output file.
// A file matches when every populated field matches.
type SearchPattern struct {
	// Fn is a filename glob (doublestar syntax).
	Fn string `yaml:"fn,omitempty"`

	// FnRe is a filename regex.
	FnRe string `yaml:"fn_re,omitempty"`

	// Contents must occur as a substring within the first NumLines lines.
	Contents string `yaml:"contents,omitempty"`

	// ContentsRe must match a line within the first NumLines lines.
	ContentsRe string `yaml:"contents_re,omitempty"`

	// NumLines limits the content search (0 means the whole file).
	NumLines int `yaml:"num_lines,omitempty"`

	compiledFnRe       *regexp.Regexp
	compiledContentsRe *regexp.Regexp
}

// CompiledFnRe returns the compiled filename regex, if any.
func (p *SearchPattern) CompiledFnRe() *regexp.Regexp {
	return p.compiledFnRe
}

// CompiledContentsRe returns the compiled contents regex, if any.
func (p *SearchPattern) CompiledContentsRe() *regexp.Regexp {
	return p.compiledContentsRe
}

// Compile validates and compiles the pattern's regexes.
func (p *SearchPattern) Compile() error {
	if p.Fn == "" && p.FnRe == "" && p.Contents == "" && p.ContentsRe == "" {
		return fmt.Errorf("at least one of fn, fn_re, contents or contents_re is required")
	}
	if p.NumLines < 0 {
		return fmt.Errorf("num_lines must be >= 0, got %d", p.NumLines)
	}
	if p.FnRe != "" {
		re, err := regexp.Compile(p.FnRe)
		if err != nil {
			return fmt.Errorf("invalid fn_re: %w", err)
		}
		p.compiledFnRe = re
	}
	if p.ContentsRe != "" {
		re, err := regexp.Compile(p.ContentsRe)
		if err != nil {
			return fmt.Errorf("invalid contents_re: %w", err)
		}
		p.compiledContentsRe = re
	}
	return nil
}

// CleanType is how a CleanRule modifies a sample name.
type CleanType string

const (
	// CleanTruncate cuts the name at the first occurrence of the pattern.
	CleanTruncate CleanType = "truncate"
	// CleanRemove deletes every occurrence of the pattern.
	CleanRemove CleanType = "remove"
	// CleanRegex deletes every match of the pattern regex.
	CleanRegex CleanType = "regex"
	// CleanRegexKeep keeps only the first match of the pattern regex.
	CleanRegexKeep CleanType = "regex_keep"
)

// CleanRule is one filename-to-sample-name cleaning step.
// In YAML it is either a bare string (truncate) or a {type, pattern} mapping.
type CleanRule struct {
	Type    CleanType `yaml:"type"`
	Pattern string    `yaml:"pattern"`

	compiled *regexp.Regexp
}

// UnmarshalYAML accepts both the scalar and mapping forms.
func (r *CleanRule) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Type = CleanTruncate
		r.Pattern = value.Value
		return nil
	}
	type plain CleanRule
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = CleanRule(p)
	if r.Type == "" {
		r.Type = CleanTruncate
	}
	return nil
}

// Compiled returns the compiled regex for regex rules.
func (r *CleanRule) Compiled() *regexp.Regexp {
	return r.compiled
}

// Compile validates the rule and compiles regex patterns.
func (r *CleanRule) Compile() error {
	if r.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	switch r.Type {
	case CleanTruncate, CleanRemove:
		return nil
	case CleanRegex, CleanRegexKeep:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		r.compiled = re
		return nil
	default:
		return fmt.Errorf("invalid type %q (must be truncate, remove, regex or regex_keep)", r.Type)
	}
}

// CountConfig scales and labels read or base counts in table columns.
type CountConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	Prefix     string  `yaml:"prefix"`
	Desc       string  `yaml:"desc"`
}

// DataFormat is the encoding of written data files.
type DataFormat string

const (
	DataFormatTSV  DataFormat = "tsv"
	DataFormatJSON DataFormat = "json"
	DataFormatYAML DataFormat = "yaml"
)

// BCLConvertConfig holds options for the bclconvert module.
type BCLConvertConfig struct {
	// GenomeSize is a base count or one of the presets in GenomeSizePresets.
	GenomeSize string `yaml:"genome_size,omitempty"`

	// CreateUndeterminedBarcodeBarplots forces the undetermined barcode
	// section even when several demultiplexing runs are merged.
	CreateUndeterminedBarcodeBarplots bool `yaml:"create_undetermined_barcode_barplots,omitempty"`

	genomeSize int64
}

// GenomeSizeBases returns the resolved genome size (0 when unset).
func (b *BCLConvertConfig) GenomeSizeBases() int64 {
	return b.genomeSize
}

// LibrarianConfig holds options for the librarian module.
type LibrarianConfig struct {
	ShowGeneralStats bool `yaml:"show_general_stats,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSamples fires only when at least one module found samples (default).
	WebhookTriggerOnSamples WebhookTrigger = "on_samples"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines an endpoint that receives the finished report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to "on_samples".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
