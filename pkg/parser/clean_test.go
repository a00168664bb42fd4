package parser

import (
	"testing"

	"github.com/ccollicutt/qclog/pkg/config"
)

func TestCleaner_Clean(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	c := NewCleaner(cfg)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fastq gz", "sample1.fastq.gz", "sample1"},
		{"log", "sample2.hisat2.log", "sample2.hisat2"},
		{"trim underscore", "sample3_.txt", "sample3"},
		{"trim short_summary prefix", "short_summary_sampleA.txt", "sampleA"},
		{"best results", "tumour.BEST.results", "tumour"},
		{"empty falls back", ".log", ".log"},
		{"no rule applies", "plainname", "plainname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Clean(tt.in, ""); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleaner_RuleTypes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FnCleanExts = []config.CleanRule{
		{Type: config.CleanRemove, Pattern: "_L001"},
		{Type: config.CleanRegex, Pattern: `_S\d+$`},
		{Type: config.CleanRegexKeep, Pattern: `P\d+`},
	}
	cfg.FnCleanTrim = nil
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	c := NewCleaner(cfg)

	if got := c.Clean("run_P123_L001_S7", ""); got != "P123" {
		t.Errorf("Clean() = %q, want P123", got)
	}
	if got := c.Clean("run_X_L001_S7", ""); got != "run_X" {
		t.Errorf("Clean() = %q, want run_X", got)
	}
}

func TestCleaner_PrependDirs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PrependDirs = true
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	c := NewCleaner(cfg)

	if got := c.Clean("s1.log", "run1/lane2"); got != "run1 | lane2 | s1" {
		t.Errorf("Clean() = %q, want %q", got, "run1 | lane2 | s1")
	}
	if got := c.Clean("s1.log", "."); got != "s1" {
		t.Errorf("Clean() with root . = %q, want s1", got)
	}
}
