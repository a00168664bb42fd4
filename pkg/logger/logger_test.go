package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"debug json", "debug", "json", false},
		{"info text", "info", "text", false},
		{"warn default format", "warn", "", false},
		{"invalid level", "loud", "text", true},
		{"invalid format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Initialize(tt.level, tt.format, &buf)
			if (err != nil) != tt.wantErr {
				t.Errorf("Initialize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestForModule_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize("debug", "json", &buf); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer func() { _ = Initialize("info", "text", nil) }()

	ForModule("hisat2").Debug("Duplicate sample name found! Overwriting: s1")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["module"] != "hisat2" {
		t.Errorf("module field = %v, want hisat2", entry["module"])
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}
}

func TestInitialize_InfoFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	if err := Initialize("info", "text", &buf); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer func() { _ = Initialize("info", "text", nil) }()

	ForModule("busco").Debugf("hidden %d", 1)
	WithField("files", 2).Infof("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("info message missing: %q", out)
	}
}
