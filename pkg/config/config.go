package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadDefault returns the validated default configuration with environment
// overrides applied. It is used when no config file is given.
func LoadDefault() (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and compiles regex patterns.
func Validate(cfg *Config) error {
	switch cfg.DataFormat {
	case "":
		cfg.DataFormat = DefaultDataFormat
	case DataFormatTSV, DataFormatJSON, DataFormatYAML:
	default:
		return fmt.Errorf("data_format: invalid value %q (must be tsv, json, or yaml)", cfg.DataFormat)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	if cfg.LogLevel != "" {
		if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format: invalid value %q (must be text or json)", cfg.LogFormat)
	}

	cfg.maxFileSizeBytes = 0
	if cfg.MaxFileSize != "" {
		n, err := humanize.ParseBytes(cfg.MaxFileSize)
		if err != nil {
			return fmt.Errorf("max_file_size: %w", err)
		}
		cfg.maxFileSizeBytes = n
	}

	for _, patterns := range [][]string{cfg.IgnoreFiles, cfg.IgnoreDirs, cfg.IgnoreSamples} {
		for _, p := range patterns {
			if _, err := doublestar.Match(p, "x"); err != nil {
				return fmt.Errorf("invalid glob %q: %w", p, err)
			}
		}
	}

	cfg.ignoreSamplesRegex = nil
	for i, expr := range cfg.IgnoreSamplesRegex {
		re, err := regexp.Compile(expr)
		if err != nil {
			return fmt.Errorf("ignore_samples_regex[%d]: %w", i, err)
		}
		cfg.ignoreSamplesRegex = append(cfg.ignoreSamplesRegex, re)
	}

	for i := range cfg.FnCleanExts {
		if err := cfg.FnCleanExts[i].Compile(); err != nil {
			return fmt.Errorf("fn_clean_exts[%d]: %w", i, err)
		}
	}

	for key, patterns := range cfg.SearchPatterns {
		if len(patterns) == 0 {
			return fmt.Errorf("search_patterns[%s]: at least one pattern is required", key)
		}
		for i := range patterns {
			if err := patterns[i].Compile(); err != nil {
				return fmt.Errorf("search_patterns[%s][%d]: %w", key, i, err)
			}
		}
	}

	if err := validateCount(&cfg.ReadCount); err != nil {
		return fmt.Errorf("read_count: %w", err)
	}
	if err := validateCount(&cfg.BaseCount); err != nil {
		return fmt.Errorf("base_count: %w", err)
	}

	if err := validateBCLConvert(&cfg.BCLConvert); err != nil {
		return fmt.Errorf("bclconvert: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateCount(c *CountConfig) error {
	if c.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be > 0, got %v", c.Multiplier)
	}
	return nil
}

func validateBCLConvert(b *BCLConvertConfig) error {
	b.genomeSize = 0
	if b.GenomeSize == "" {
		return nil
	}
	if n, ok := GenomeSizePresets[b.GenomeSize]; ok {
		b.genomeSize = n
		return nil
	}
	f, err := strconv.ParseFloat(b.GenomeSize, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("genome_size %q is neither a positive number nor one of hg19_genome, hg38_genome, mm10_genome", b.GenomeSize)
	}
	b.genomeSize = int64(f)
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnSamples, WebhookTriggerAlways, WebhookTriggerNever:
		default:
			return fmt.Errorf("invalid trigger %q (must be on_samples, always, or never)", wh.Trigger)
		}
	} else {
		wh.Trigger = WebhookTriggerOnSamples
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}

	return s
}
