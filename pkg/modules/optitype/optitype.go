// Package optitype parses OptiType HLA typing results.
package optitype

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "optitype"

// Alleles are the HLA class I allele columns of a result file.
var Alleles = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

var columns = []report.Column{
	{Key: "A1", Header: report.Header{Title: "HLA-A1", Description: "First HLA-A allele"}},
	{Key: "A2", Header: report.Header{Title: "HLA-A2", Description: "Second HLA-A allele", Hidden: true}},
	{Key: "B1", Header: report.Header{Title: "HLA-B1", Description: "First HLA-B allele"}},
	{Key: "B2", Header: report.Header{Title: "HLA-B2", Description: "Second HLA-B allele", Hidden: true}},
	{Key: "C1", Header: report.Header{Title: "HLA-C1", Description: "First HLA-C allele"}},
	{Key: "C2", Header: report.Header{Title: "HLA-C2", Description: "Second HLA-C allele", Hidden: true}},
	{Key: "Reads", Header: report.Header{
		Title:       "Reads",
		Description: "Number of reads covering the HLA",
		Scale:       "YlGnBu",
		Hidden:      true,
		Format:      "%.0f",
	}},
	{Key: "Objective", Header: report.Header{
		Title:       "Objective Score",
		Description: "Score of the objective function for the prediction.",
		Scale:       "BuGn",
		Hidden:      true,
	}},
}

// Module parses OptiType results.
type Module struct{}

// New creates the OptiType module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "OptiType",
		Anchor: "optitype",
		Href:   "https://github.com/FRED-2/OptiType",
		Info:   "Precision HLA typing from next-generation sequencing data.",
		DOIs:   []string{"10.1093/bioinformatics/btu548"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		metrics, err := parseResult(ctx, f)
		if err != nil {
			if err := b.FileError(ctx, f, err); err != nil {
				return err
			}
			continue
		}
		if len(metrics) == 0 {
			b.Log().WithField("path", f.Path()).Warn("OptiType result has no data row")
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

	if err := b.WriteDataFile(data, "qclog_optitype"); err != nil {
		return err
	}
	b.GeneralStatsAddCols(data, columns)

	b.AddSection(report.Section{
		Name:        "Summary of alleles",
		Anchor:      "optitype_summary",
		Description: "Number of samples sharing the same allele.",
		BarGraph:    AlleleSummary(data),
	})
	return nil
}

// parseResult pairs the header row with the first data row. The leading
// index column is dropped. Allele calls stay strings; other numeric columns
// become float64.
func parseResult(ctx context.Context, f *parser.LogFile) (report.Metrics, error) {
	var rows [][]string
	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		rows = append(rows, strings.Split(line.Content, "\t"))
		if len(rows) == 2 {
			return parser.ErrStopScan
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers, values := rows[0][1:], rows[1]
	if len(values) > 0 {
		values = values[1:]
	}

	metrics := make(report.Metrics)
	for i, h := range headers {
		if i >= len(values) {
			break
		}
		v := values[i]
		if !isAllele(h) {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				metrics[h] = n
				continue
			}
		}
		metrics[h] = v
	}
	return metrics, nil
}

func isAllele(key string) bool {
	for _, a := range Alleles {
		if a == key {
			return true
		}
	}
	return false
}

// AlleleSummary counts the samples carrying each allele, with one bar per
// allele column.
func AlleleSummary(data report.SampleData) *report.BarGraph {
	counts := make(map[string]map[string]float64, len(Alleles))
	seen := make(map[string]bool)
	for _, slot := range Alleles {
		counts[slot] = make(map[string]float64)
	}
	for _, metrics := range data {
		for _, slot := range Alleles {
			allele, ok := metrics[slot].(string)
			if !ok {
				continue
			}
			counts[slot][allele]++
			seen[allele] = true
		}
	}

	names := make([]string, 0, len(seen))
	for a := range seen {
		names = append(names, a)
	}
	sort.Strings(names)
	cats := make([]report.Category, len(names))
	for i, a := range names {
		cats[i] = report.Category{Key: a, Name: a}
	}

	return &report.BarGraph{
		ID:     "optitype_summary_plot",
		Title:  "OptiType: Summary of alleles",
		YLabel: "# Samples",
		Datasets: []report.BarDataset{{
			Categories: cats,
			Data:       counts,
		}},
	}
}
