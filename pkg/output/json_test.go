package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/qclog/pkg/report"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed struct {
		Summary Summary `json:"summary"`
		Modules []struct {
			Anchor  string `json:"anchor"`
			Samples int    `json:"samples"`
		} `json:"modules"`
		GeneralStats struct {
			Rows map[string]map[string]any `json:"rows"`
		} `json:"general_stats"`
		Skipped []string `json:"skipped"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	wantSummary := Summary{
		ModulesWithSamples: 1,
		ModulesSkipped:     2,
		Samples:            2,
		FilesMatched:       3,
		Duration:           1500 * time.Millisecond,
	}
	if diff := cmp.Diff(wantSummary, parsed.Summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(parsed.Modules) != 1 || parsed.Modules[0].Anchor != "leehom" || parsed.Modules[0].Samples != 2 {
		t.Errorf("modules = %+v", parsed.Modules)
	}
	wantRows := map[string]map[string]any{
		"libA": {"leehom-merged": 1234567.0, "leehom-pct": 45.678, "leehom-kind": "PE"},
		"libB": {"leehom-merged": 12.0, "leehom-kind": "SE"},
	}
	if diff := cmp.Diff(wantRows, parsed.GeneralStats.Rows); diff != "" {
		t.Errorf("general stats rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hisat2", "theta2"}, parsed.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output summary
	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := parsed["modules"]; ok {
		t.Error("quiet output should not include modules")
	}
	if parsed["samples"] != 2.0 {
		t.Errorf("samples = %v, want 2", parsed["samples"])
	}
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report.New(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("Output is not valid JSON: %s", buf.String())
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"text", "text", false},
		{"", "text", false},
		{"json", "json", false},
		{"html", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.name, FormatOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.want)
			}
		})
	}
}
