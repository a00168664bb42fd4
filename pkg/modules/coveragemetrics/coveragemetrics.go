// Package coveragemetrics parses amplicon coverage metric summaries.
package coveragemetrics

import (
	"context"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "coverage_metrics"

var extractor = parser.NewExtractor(
	parser.NewPattern("on_target_percent", `on_target_percent\s+(\d+(?:\.\d+)?)`, parser.Float),
	parser.NewPattern("coverage_uniformity", `coverage_uniformity\s+(\d+(?:\.\d+)?)`, parser.Float),
)

var columns = []report.Column{
	{Key: "on_target_percent", Header: report.Header{
		Title:       "On Target Percentage",
		Description: "The percentage of total aligned reads sequenced aligned to the intended target regions.",
		Min:         report.Float(0),
	}},
	{Key: "coverage_uniformity", Header: report.Header{
		Title: "Coverage Uniformity",
		Description: "Coverage uniformity percent (CU%) is calculated as the ratio of 'number of target " +
			"bases that have coverage at or above 20% (0.2μ)' and 'total number of target bases'",
		Min: report.Float(0),
	}},
}

// Module parses coverage metric summaries.
type Module struct{}

// New creates the coverage metrics module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "Coverage Metrics",
		Anchor: "coverage_metrics",
		Info:   "Amplicon coverage metric summary.",
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		metrics, err := modules.ScanFile(ctx, f, extractor)
		if err != nil {
			if err := b.FileError(ctx, f, err); err != nil {
				return err
			}
			continue
		}
		if len(metrics) == 0 {
			continue
		}
		name := strings.ReplaceAll(f.SampleName, "_amplicon_coverage_metrics", "")
		b.SaveSample(data, name, metrics, f)
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_coverage_metrics"); err != nil {
		return err
	}
	b.GeneralStatsAddCols(data, columns)
	return nil
}
