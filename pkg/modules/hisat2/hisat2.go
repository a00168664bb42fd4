// Package hisat2 parses alignment summaries written by HISAT2 with
// --new-summary.
package hisat2

import (
	"context"
	"regexp"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "hisat2"

var (
	extractor = parser.NewExtractor(
		parser.NewPattern("unpaired_total", `Total(?: unpaired)? reads: (\d+)`, parser.Int),
		parser.NewPattern("unpaired_aligned_none", `Aligned 0 times?: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("unpaired_aligned_one", `Aligned 1 time: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("unpaired_aligned_multi", `Aligned >1 times: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("paired_total", `Total pairs: (\d+)`, parser.Int),
		parser.NewPattern("paired_aligned_none", `Aligned concordantly or discordantly 0 time: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("paired_aligned_one", `Aligned concordantly 1 time: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("paired_aligned_multi", `Aligned concordantly >1 times: (\d+) \([\d\.]+%\)`, parser.Int),
		parser.NewPattern("paired_aligned_discord_one", `Aligned discordantly 1 time: (\d+) \([\d\.]+%\)`, parser.Int),
	)

	commandRe = regexp.MustCompile(`hisat2 .+ -[1U] ([^\s,]+)`)
	overallRe = regexp.MustCompile(`Overall alignment rate: ([\d\.]+)%`)
)

// mateKeys are single-mate counts halved for paired-end samples.
var mateKeys = []string{
	"unpaired_total",
	"unpaired_aligned_none",
	"unpaired_aligned_one",
	"unpaired_aligned_multi",
}

var columns = []report.Column{
	{Key: "overall_alignment_rate", Header: report.Header{
		Title:       "% Aligned",
		Description: "overall alignment rate",
		Max:         report.Float(100),
		Min:         report.Float(0),
		Suffix:      "%",
		Scale:       "YlGn",
	}},
}

var (
	seCategories = []report.Category{
		{Key: "unpaired_aligned_one", Name: "SE mapped uniquely", Color: "#20568f"},
		{Key: "unpaired_aligned_multi", Name: "SE multimapped", Color: "#f7a35c"},
		{Key: "unpaired_aligned_none", Name: "SE not aligned", Color: "#981919"},
	}
	peCategories = []report.Category{
		{Key: "paired_aligned_one", Name: "PE mapped uniquely", Color: "#20568f"},
		{Key: "paired_aligned_discord_one", Name: "PE mapped discordantly uniquely", Color: "#5c94ca"},
		{Key: "unpaired_aligned_one", Name: "PE one mate mapped uniquely", Color: "#95ceff"},
		{Key: "paired_aligned_multi", Name: "PE multimapped", Color: "#f7a35c"},
		{Key: "unpaired_aligned_multi", Name: "PE one mate multimapped", Color: "#ffeb75"},
		{Key: "unpaired_aligned_none", Name: "PE neither mate aligned", Color: "#981919"},
	}
)

// Module parses HISAT2 summaries.
type Module struct{}

// New creates the HISAT2 module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "HISAT2",
		Anchor: "hisat2",
		Href:   "https://ccb.jhu.edu/software/hisat2/",
		Info:   "Maps DNA or RNA reads against a genome or a population of genomes",
		DOIs:   []string{"10.1038/nmeth.3317", "10.1038/s41587-019-0201-4"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		if err := parseLog(ctx, b, f, data); err != nil {
			if err := b.FileError(ctx, f, err); err != nil {
				return err
			}
		}
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)
	b.AddSoftwareVersion("")

	if err := b.WriteDataFile(data, "qclog_hisat2"); err != nil {
		return err
	}
	b.GeneralStatsAddCols(data, columns)
	addAlignmentPlots(b, data)
	return nil
}

// parseLog reads one log, which may hold several summaries. Each summary
// ends at its overall alignment rate line.
func parseLog(ctx context.Context, b *modules.Base, f *parser.LogFile, data report.SampleData) error {
	name := f.SampleName
	metrics := make(report.Metrics)

	return parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		if m := commandRe.FindStringSubmatch(line.Content); m != nil {
			name = b.CleanSampleName(m[1], f)
			b.Log().Debugf("Found a HISAT2 command, updating sample name to '%s'", name)
		}

		extractor.Apply(line.Content, metrics)

		if m := overallRe.FindStringSubmatch(line.Content); m != nil {
			if v, ok := parser.Convert(m[1], parser.Float); ok {
				metrics["overall_alignment_rate"] = v
			}
			b.SaveSample(data, name, metrics, f)

			name = f.SampleName
			metrics = make(report.Metrics)
		}
		return nil
	})
}

// SplitPairs separates single-end from paired-end samples. Paired-end
// records are copies with their single-mate counts halved so they tally
// with pair counts; data is not modified.
func SplitPairs(data report.SampleData) (se, pe report.SampleData) {
	se = make(report.SampleData)
	pe = make(report.SampleData)
	for name, metrics := range data.Copy() {
		if _, ok := metrics["paired_total"]; !ok {
			se[name] = metrics
			continue
		}
		for _, k := range mateKeys {
			if v, ok := parser.ToFloat(metrics[k]); ok {
				metrics[k] = v / 2
			}
		}
		pe[name] = metrics
	}
	return se, pe
}

func addAlignmentPlots(b *modules.Base, data report.SampleData) {
	se, pe := SplitPairs(data)

	if len(se) > 0 {
		b.AddSection(report.Section{
			BarGraph: modules.NewBarGraph("hisat2_se_plot", "HISAT2: SE Alignment Scores", "# Reads", se, seCategories),
		})
	}
	if len(pe) > 0 {
		b.AddSection(report.Section{
			Description: "Please note that single mate alignment counts are halved to tally with pair counts properly.",
			BarGraph:    modules.NewBarGraph("hisat2_pe_plot", "HISAT2: PE Alignment Scores", "# Reads", pe, peCategories),
		})
	}
}
