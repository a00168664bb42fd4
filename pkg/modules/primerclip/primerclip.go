// Package primerclip parses Primerclip run statistics.
package primerclip

import (
	"context"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "primerclip"

var extractor = parser.NewExtractor(
	parser.NewPattern("total_alignments", `Total alignments processed:\s+(\d+)`, parser.Float),
	parser.NewPattern("total_mapped_alignments", `Total mapped alignments:\s+(\d+)`, parser.Float),
	parser.NewPattern("trimmed_by_ge_one_base", `^Alignments trimmed by >= 1 base:\s+(\d+)`, parser.Float),
	parser.NewPattern("trimmed_to_zero", `Alignments trimmed to zero aligned length:\s+(\d+(?:\.\d+)?)`, parser.Float),
	parser.NewPattern("perc_trimmed_by_ge_one_base", `% Alignments trimmed by >= 1 base:\s+(\d+(?:\.\d+)?)`, parser.Float),
	parser.NewPattern("perc_mapped_after_trimming", `% Alignments mapped after trimming:\s+(\d+(?:\.\d+)?)`, parser.Float),
)

var columns = []report.Column{
	{Key: "total_alignments", Header: report.Header{
		Title:       "Total Alignments",
		Description: "The number total alignments in sample",
		Min:         report.Float(0),
	}},
	{Key: "total_mapped_alignments", Header: report.Header{
		Title:       "Mapped Alignments",
		Description: "The number of mapped alignments in the sample",
		Min:         report.Float(0),
	}},
	{Key: "trimmed_by_ge_one_base", Header: report.Header{
		Title:       "Trimmed Alignments",
		Description: "Alignments trimmed by >= 1 base",
		Min:         report.Float(0),
	}},
	{Key: "trimmed_to_zero", Header: report.Header{
		Title:       "Removed Alignments",
		Description: "Alignments trimmed to 0 length",
		Min:         report.Float(0),
	}},
}

// Module parses Primerclip run statistics files.
type Module struct{}

// New creates the primerclip module.
func New() *Module {
	return &Module{}
}

// Info returns the module metadata.
func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "Primerclip",
		Anchor: "primerclip",
		Href:   "https://github.com/swiftbiosciences/primerclip",
		Info: "Primerclip™ is an alignment-based primer trimming tool designed to trim primer " +
			"sequences for Swift Biosciences Accel-Amplicon™ panels.",
	}
}

// SearchKeys returns the discovery keys the module reads.
func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

// Run parses every run statistics file and contributes general statistics.
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
		name := strings.ReplaceAll(f.SampleName, "_primerclip_runstats", "")
		b.SaveSample(data, name, metrics, f)
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_primerclip"); err != nil {
		return err
	}
	b.GeneralStatsAddCols(data, columns)
	return nil
}
