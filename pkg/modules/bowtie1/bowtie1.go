// Package bowtie1 parses Bowtie 1 alignment logs.
package bowtie1

import (
	"context"
	"regexp"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "bowtie1"

var (
	extractor = parser.NewExtractor(
		parser.NewPattern("reads_processed", `# reads processed:\s+(\d+)`, parser.Float),
		parser.NewPattern("reads_aligned", `# reads with at least one(?: reported)? alignment:\s+(\d+)`, parser.Float),
		parser.NewPattern("reads_aligned_percentage", `# reads with at least one(?: reported)? alignment:\s+\d+\s+\(([\d\.]+)%\)`, parser.Float),
		parser.NewPattern("not_aligned", `# reads that failed to align:\s+(\d+)`, parser.Float),
		parser.NewPattern("not_aligned_percentage", `# reads that failed to align:\s+\d+\s+\(([\d\.]+)%\)`, parser.Float),
		parser.NewPattern("multimapped", `# reads with alignments suppressed due to -m:\s+(\d+)`, parser.Float),
		parser.NewPattern("multimapped_percentage", `# reads with alignments suppressed due to -m:\s+\d+\s+\(([\d\.]+)%\)`, parser.Float),
	)

	fastqRe = regexp.MustCompile(`([^\s,]+\.f(?:ast)?q\.gz)`)
)

var categories = []report.Category{
	{Key: "reads_aligned", Name: "Aligned", Color: "#8bbc21"},
	{Key: "multimapped", Name: "Multimapped", Color: "#2f7ed8"},
	{Key: "not_aligned", Name: "Not aligned", Color: "#0d233a"},
}

// Module parses Bowtie 1 logs.
type Module struct{}

// New creates the Bowtie 1 module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "Bowtie 1",
		Anchor: "bowtie1",
		Href:   "http://bowtie-bio.sourceforge.net/",
		Info:   "Ultrafast, memory-efficient short read aligner.",
		DOIs:   []string{"10.1186/gb-2009-10-3-r25"},
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

	if err := b.WriteDataFile(data, "qclog_bowtie1"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "reads_aligned_percentage", Header: report.Header{
			Title:       "% Aligned",
			Description: "% reads with at least one reported alignment",
			Max:         report.Float(100),
			Min:         report.Float(0),
			Suffix:      "%",
			Scale:       "YlGn",
		}},
		{Key: "reads_aligned", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Aligned",
			Description: "reads with at least one reported alignment (%s)",
			Min:         report.Float(0),
			Scale:       "PuRd",
		})},
	})

	b.AddSection(report.Section{
		Description: "This plot shows the number of reads aligning to the reference in different ways.",
		Helptext: "There are 3 possible types of alignment:\n" +
			"* **Aligned**: Read has only one occurence in the reference genome.\n" +
			"* **Multimapped**: Read has multiple occurence.\n" +
			"* **Not aligned**: Read has no occurence.",
		BarGraph: modules.NewBarGraph("bowtie1_alignment", "Bowtie 1: Alignment Scores", "# Reads", data, categories),
	})
	return nil
}

// parseLog reads one log. A log may hold several runs, each closed by an
// "Overall time:" line; a trailing run without one is still kept.
func parseLog(ctx context.Context, b *modules.Base, f *parser.LogFile, data report.SampleData) error {
	name := f.SampleName
	metrics := make(report.Metrics)

	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		text := line.Content
		if strings.Contains(text, "bowtie") && strings.Contains(text, "q.gz") {
			if m := fastqRe.FindStringSubmatch(text); m != nil {
				name = b.CleanSampleName(m[1], f)
				b.Log().Debugf("Found a bowtie command, updating sample name to '%s'", name)
			}
		}

		if strings.Contains(text, "Overall time:") {
			if len(metrics) > 0 {
				b.SaveSample(data, name, metrics, f)
			}
			name = f.SampleName
			metrics = make(report.Metrics)
		}

		extractor.Apply(text, metrics)
		return nil
	})
	if err != nil {
		return err
	}

	if len(metrics) > 0 {
		b.SaveSample(data, name, metrics, f)
	}
	return nil
}
