// Package gopeaks parses GoPeaks JSON run summaries.
package gopeaks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "gopeaks"

var categories = []report.Category{
	{Key: "peak_counts", Name: "Peak Counts"},
}

// Module parses GoPeaks summaries.
type Module struct{}

// New creates the GoPeaks module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "GoPeaks",
		Anchor: "gopeaks",
		Href:   "https://github.com/maxsonBraunLab/gopeaks",
		Info:   "Calls peaks in CUT&TAG/CUT&RUN datasets.",
		DOIs:   []string{"10.1186/s13059-022-02707-w"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		if err := ctx.Err(); err != nil {
			return err
		}
		metrics, err := parseSummary(f)
		if err != nil {
			b.Log().WithField("path", f.Path()).Warnf("Could not parse GoPeaks JSON: %v", err)
			continue
		}
		if v, ok := metrics["gopeaks_version"].(string); ok {
			b.AddSoftwareVersion(v)
		}
		b.SaveSample(data, f.SampleName, metrics, f)
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_gopeaks"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "peak_counts", Header: report.Header{
			Title:       "Peak Counts",
			Description: "Number of peaks per sample",
			Min:         report.Float(0),
			Scale:       "YlGnBu",
			Format:      "%.0f",
		}},
	})

	b.AddSection(report.Section{
		Name:        "GoPeaks",
		Anchor:      "gopeaks_bargraph",
		Description: "Number of peaks called by GoPeaks.",
		BarGraph:    modules.NewBarGraph("GoPeaksBarGraph", "GoPeaks: Number of Peaks by Sample", "Sample", data, categories),
	})
	return nil
}

// parseSummary keeps the numeric and string fields of a summary.
func parseSummary(f *parser.LogFile) (report.Metrics, error) {
	raw, err := f.ReadAll()
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path(), err)
	}

	metrics := make(report.Metrics, len(doc))
	for k, v := range doc {
		switch v.(type) {
		case float64, string:
			metrics[k] = v
		}
	}
	return metrics, nil
}
