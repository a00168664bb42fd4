// Package leehom parses leeHom adapter trimming and read merging reports.
package leehom

import (
	"context"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "leehom"

var extractor = parser.NewExtractor(
	parser.NewPattern("total", `Total reads[\s\:]+(\d+)`, parser.Int),
	parser.NewPattern("merged_trimming", `Merged \(trimming\)\s+(\d+)`, parser.Int),
	parser.NewPattern("merged_overlap", `Merged \(overlap\)\s+(\d+)`, parser.Int),
	parser.NewPattern("kept", `Kept PE/SR\s+(\d+)`, parser.Int),
	parser.NewPattern("trimmed", `Trimmed SR\s+(\d+)`, parser.Int),
	parser.NewPattern("adapter_dimers_chimeras", `Adapter dimers/chimeras\s+(\d+)`, parser.Int),
	parser.NewPattern("failed_key", `Failed Key\s+(\d+)`, parser.Int),
)

// Module parses leeHom reports.
type Module struct{}

// New creates the leeHom module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "leeHom",
		Anchor: "leehom",
		Href:   "https://github.com/grenaud/leeHom",
		Info:   "Bayesian reconstruction of ancient DNA",
		DOIs:   []string{"10.1093/nar/gku699"},
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
		b.SaveSample(data, f.SampleName, metrics, f)
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)
	b.AddSoftwareVersion("")

	if err := b.WriteDataFile(data, "qclog_leehom"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "merged_trimming", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Merged (Trimming)",
			Description: "Merged clusters from trimming (%s)",
			Min:         report.Float(0),
			Scale:       "PuRd",
		})},
		{Key: "merged_overlap", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Merged (Overlap)",
			Description: "Merged clusters from overlapping reads (%s)",
			Min:         report.Float(0),
			Scale:       "PuRd",
		})},
	})
	return nil
}
