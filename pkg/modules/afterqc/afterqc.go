// Package afterqc parses AfterQC JSON reports.
package afterqc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "afterqc"

// AfterQC renamed its summary key between releases.
var summaryKeys = []string{"summary", "afterqc_main_summary"}

var categories = []report.Category{
	{Key: "good_reads", Name: "Good Reads"},
	{Key: "bad_reads_with_bad_barcode", Name: "Bad Barcode"},
	{Key: "bad_reads_with_bad_overlap", Name: "Bad Overlap"},
	{Key: "bad_reads_with_bad_read_length", Name: "Bad Read Length"},
	{Key: "bad_reads_with_low_quality", Name: "Low Quality"},
	{Key: "bad_reads_with_polyX", Name: "PolyX"},
	{Key: "bad_reads_with_reads_in_bubble", Name: "Reads In Bubble"},
	{Key: "bad_reads_with_too_many_N", Name: "Too many N"},
}

// Module parses AfterQC reports.
type Module struct{}

// New creates the AfterQC module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "AfterQC",
		Anchor: "afterqc",
		Href:   "https://github.com/OpenGene/AfterQC",
		Info:   "Automatic filtering, trimming, error removing, and quality control for FastQ data.",
		DOIs:   []string{"10.1186/s12859-017-1469-3"},
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
		metrics, err := parseReport(f)
		if err != nil {
			b.Log().WithField("path", f.Path()).Warnf("Could not parse AfterQC JSON: %v", err)
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

	if err := b.WriteDataFile(data, "qclog_afterqc"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "pct_good_bases", Header: report.Header{
			Title:       "% Good Bases",
			Description: "Percent Good Bases",
			Max:         report.Float(100),
			Min:         report.Float(0),
			Suffix:      "%",
			Scale:       "BuGn",
		}},
		{Key: "good_reads", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Good Reads",
			Description: "Good Reads (%s)",
			Min:         report.Float(0),
			Scale:       "GnBu",
		})},
		{Key: "total_reads", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Total Reads",
			Description: "Total Reads (%s)",
			Min:         report.Float(0),
			Scale:       "Blues",
		})},
		{Key: "readlen", Header: report.Header{
			Title:       "Read Length",
			Description: "Read Length",
			Min:         report.Float(0),
			Suffix:      " bp",
			Format:      "%.0f",
			Scale:       "YlGn",
		}},
	})

	b.AddSection(report.Section{
		Name:        "Bad Reads",
		Anchor:      "after_qc",
		Description: "Filtering statistics of sampled reads.",
		BarGraph:    modules.NewBarGraph("afterqc_bad_reads_plot", "AfterQC: Filtered Reads", "# Reads", data, categories),
	})
	return nil
}

// parseReport decodes the summary block of one report. Numeric values and
// numeric strings become float64, other strings are kept as is.
func parseReport(f *parser.LogFile) (report.Metrics, error) {
	raw, err := f.ReadAll()
	if err != nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path(), err)
	}

	var block json.RawMessage
	for _, k := range summaryKeys {
		if v, ok := doc[k]; ok {
			block = v
			break
		}
	}
	if block == nil {
		return nil, fmt.Errorf("%s has no 'summary' or 'afterqc_main_summary' key", f.Path())
	}

	var summary map[string]any
	if err := json.Unmarshal(block, &summary); err != nil {
		return nil, fmt.Errorf("decoding summary of %s: %w", f.Path(), err)
	}

	metrics := make(report.Metrics, len(summary)+1)
	for k, v := range summary {
		switch val := v.(type) {
		case float64:
			metrics[k] = val
		case bool:
			if val {
				metrics[k] = 1.0
			} else {
				metrics[k] = 0.0
			}
		case string:
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				metrics[k] = n
			} else {
				metrics[k] = val
			}
		}
	}

	good, gok := metrics["good_bases"].(float64)
	total, tok := metrics["total_bases"].(float64)
	if gok && tok && total != 0 {
		metrics["pct_good_bases"] = good / total * 100
	}
	return metrics, nil
}
