// Package jaxtrimmer parses summaries written by the JAX FASTQ trimmer.
//
// A summary holds one value per metric for single-end input, or two values
// (R1 and R2) once a header line naming "Read 2" has been seen.
package jaxtrimmer

import (
	"context"
	"regexp"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "jax_trimmer"

var (
	// readMarker matches the "Read 1"/"Read 2" column header line.
	readMarker = regexp.MustCompile(`\bRead [12]\b`)

	pairedExtractor = parser.NewExtractor(
		parser.NewPattern("perc_hq", `Percentage of HQ reads\s+(\d+(?:\.\d+)?)%\s+(\d+(?:\.\d+)?)`, parser.Float, "_1", "_2"),
		parser.NewPattern("total_reads", `Total number of reads\s+(\d+)\s+(\d+)`, parser.Float, "_1", "_2"),
		parser.NewPattern("total_hq_reads", `Total number of HQ filtered reads\s+(\d+)\s+(\d+)`, parser.Float, "_1", "_2"),
		parser.NewPattern("reads_passing", `Reads passing filter\s+(\d+)\s+(\d+)`, parser.Float, "_1", "_2"),
		parser.NewPattern("perc_passing", `Percent reads passing filter\s+(\d+(?:\.\d+)?)%\s+(\d+(?:\.\d+)?)`, parser.Float, "_1", "_2"),
		parser.NewPattern("max_trim_len", `Max Trimmed Length\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)`, parser.Float, "_1", "_2"),
		parser.NewPattern("min_trim_len", `Min Trimmed Length\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)`, parser.Float, "_1", "_2"),
		parser.NewPattern("mean_trim_len", `Mean Trimmed Length\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)`, parser.Float, "_1", "_2"),
	)

	singleExtractor = parser.NewExtractor(
		parser.NewPattern("perc_hq", `Percentage of HQ reads\s+(\d+(?:\.\d+)?)%`, parser.Float, "_1"),
		parser.NewPattern("total_reads", `Total number of reads\s+(\d+)`, parser.Float, "_1"),
		parser.NewPattern("total_hq_reads", `Total number of HQ filtered reads\s+(\d+)`, parser.Float, "_1"),
		parser.NewPattern("reads_passing", `Reads passing filter\s+(\d+)`, parser.Float, "_1"),
		parser.NewPattern("perc_passing", `Percent reads passing filter\s+(\d+(?:\.\d+)?)%`, parser.Float, "_1"),
		parser.NewPattern("max_trim_len", `Max Trimmed Length\s+(\d+(?:\.\d+)?)`, parser.Float, "_1"),
		parser.NewPattern("min_trim_len", `Min Trimmed Length\s+(\d+(?:\.\d+)?)`, parser.Float, "_1"),
		parser.NewPattern("mean_trim_len", `Mean Trimmed Length\s+(\d+(?:\.\d+)?)`, parser.Float, "_1"),
	)
)

var headerDefs = []struct {
	key, title, desc string
}{
	{"total_reads", "Total Reads", "The total number of reads in the sample"},
	{"total_hq_reads", "Total HQ Reads", "The total number of high quality reads"},
	{"reads_passing", "Reads Passing Filter", "The total number of reads passing filter"},
	{"min_trim_len", "Min Trim Length", "The minimum trim length of reads"},
	{"mean_trim_len", "Mean Trim Length", "The average trim length of reads"},
	{"max_trim_len", "Max Trim Length", "The max trim length of reads"},
}

// Columns returns the general statistics columns for R1, plus R2 when
// paired is set.
func Columns(paired bool) []report.Column {
	mates := []string{"1"}
	if paired {
		mates = append(mates, "2")
	}
	var cols []report.Column
	for _, mate := range mates {
		for _, d := range headerDefs {
			cols = append(cols, report.Column{
				Key: d.key + "_" + mate,
				Header: report.Header{
					Title:       d.title + " R" + mate,
					Description: d.desc,
					Min:         report.Float(0),
				},
			})
		}
	}
	return cols
}

// Module parses JAX trimmer summaries.
type Module struct{}

// New creates the JAX trimmer module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "JAX FASTQ Trimmer",
		Anchor: "jax_trimmer",
		Href:   "https://bitbucket.org/jacksonlaboratory/pdx-nextflow-dsl2-conversion/src/main/bin/shared/filter_trim.py",
		Info:   "a custom fastq trimmer.",
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)
	paired := make(map[string]bool)

	for _, f := range b.FindLogFiles(searchKey) {
		metrics, pe, err := parseSummary(ctx, f)
		if err != nil {
			if err := b.FileError(ctx, f, err); err != nil {
				return err
			}
			continue
		}
		if len(metrics) == 0 {
			continue
		}
		name := sampleName(f.SampleName)
		b.SaveSample(data, name, metrics, f)
		paired[name] = pe
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_jax_trimmer"); err != nil {
		return err
	}

	anyPaired := false
	for name := range data {
		anyPaired = anyPaired || paired[name]
	}
	b.GeneralStatsAddCols(data, Columns(anyPaired))
	return nil
}

// parseSummary reads one summary and reports whether it was paired-end.
func parseSummary(ctx context.Context, f *parser.LogFile) (report.Metrics, bool, error) {
	metrics := make(report.Metrics)
	pe := false
	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		if readMarker.MatchString(line.Content) {
			if strings.Contains(line.Content, "Read 2") {
				pe = true
			}
			return nil
		}
		if pe {
			pairedExtractor.Apply(line.Content, metrics)
		} else {
			singleExtractor.Apply(line.Content, metrics)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return metrics, pe, nil
}

// sampleName drops the last underscore-separated part of the file guess.
func sampleName(guess string) string {
	if i := strings.LastIndex(guess, "_"); i >= 0 {
		return guess[:i]
	}
	return guess
}
