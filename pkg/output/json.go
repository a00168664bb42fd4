package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/qclog/pkg/report"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, rep *report.Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(Summarize(rep))
	}

	return encoder.Encode(struct {
		Summary Summary `json:"summary"`
		*report.Report
	}{
		Summary: Summarize(rep),
		Report:  rep,
	})
}
