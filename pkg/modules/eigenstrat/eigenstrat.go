// Package eigenstrat parses SNP coverage JSON written by
// eigenstrat_snp_coverage from EigenStratDatabaseTools.
package eigenstrat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	searchKey   = "eigenstratdatabasetools"
	metadataKey = "Metadata"
)

// Module parses SNP coverage reports.
type Module struct{}

// New creates the eigenstratdatabasetools module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "eigenstratdatabasetools",
		Anchor: "eigenstrat",
		Href:   "https://github.com/TCLamnidis/EigenStratDatabaseTools",
		Info: "Tools to compare and manipulate the contents of EingenStrat databases, and to calculate " +
			"SNP coverage statistics in such databases.",
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
		samples, version, err := parseCoverage(f)
		if err != nil {
			b.Log().WithField("path", f.Path()).Warnf("Could not parse eigenstrat_snp_coverage JSON: %v", err)
			continue
		}
		for _, name := range modules.SortedKeys(samples) {
			clean := b.CleanSampleName(name, f)
			if version != "" {
				b.AddSoftwareVersion(version)
			}
			b.SaveSample(data, clean, samples[name], f)
		}
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_snp_cov_metrics"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "Covered_Snps", Header: report.Header{
			Title:       "Covered SNPs",
			Description: "The number of SNPs for which a genotype has been called.",
			Scale:       "PuBuGn",
			Format:      "%.0f",
			SharedKey:   "snp_call",
		}},
		{Key: "Total_Snps", Header: report.Header{
			Title:       "Total SNPs",
			Description: "The total number of SNPs in the genotype dataset.",
			Scale:       "PuBuGn",
			Format:      "%.0f",
			Hidden:      true,
			SharedKey:   "snp_call",
		}},
	})
	return nil
}

// parseCoverage decodes a report keyed by sample name. The optional
// "Metadata" entry carries the tool version.
func parseCoverage(f *parser.LogFile) (map[string]report.Metrics, string, error) {
	raw, err := f.ReadAll()
	if err != nil {
		return nil, "", err
	}

	var doc map[string]map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", f.Path(), err)
	}

	version := ""
	if meta, ok := doc[metadataKey]; ok {
		version = fmt.Sprint(meta["version"])
		delete(doc, metadataKey)
	}

	samples := make(map[string]report.Metrics, len(doc))
	for name, fields := range doc {
		m := make(report.Metrics, len(fields))
		for k, v := range fields {
			m[k] = coverageValue(v)
		}
		samples[name] = m
	}
	return samples, version, nil
}

// coverageValue stores SNP counts as integers and leaves anything
// non-numeric untouched.
func coverageValue(v any) any {
	var s string
	switch val := v.(type) {
	case json.Number:
		s = val.String()
	case string:
		s = val
	default:
		return v
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if _, isNum := v.(json.Number); isNum {
			return int64(f)
		}
	}
	return v
}
