// Package hops parses the possible-positives JSON written by the HOPS
// post-processing script.
package hops

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	searchKey = "hops"

	// Above this many samples the heatmap row labels start to overlap.
	crowdedSamples = 20
)

const helptext = `HOPS assigns a category based on how many ancient DNA characteristics a
given node (i.e. taxon) in a sample has. The colours indicate the following:

* **Grey** - No characteristics detected
* **Yellow** - Small edit distance from reference
* **Orange** - Typical aDNA damage pattern
* **Red** - Small edit distance _and_ aDNA damage pattern

A red category typically indicates a good candidate for further
investigation in downstream analysis.`

// Module parses HOPS heatmap overviews.
type Module struct{}

// New creates the HOPS module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "HOPS",
		Anchor: "hops",
		Href:   "https://github.com/rhuebler/HOPS/",
		Info:   "Ancient DNA characteristics screening tool of output from the metagenomic aligner MALT.",
		DOIs:   []string{"10.1186/s13059-019-1903-0"},
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
		b.AddSoftwareVersion("")

		samples, err := parseOverview(f)
		if err != nil {
			b.Log().WithField("path", f.Path()).Warnf("Error loading HOPS JSON: %v", err)
			continue
		}
		for _, name := range modules.SortedKeys(samples) {
			b.SaveSample(data, b.CleanSampleName(name, f), samples[name], f)
		}
	}

	data = b.IgnoreSamples(data)
	if len(data) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Finish(data)

	if err := b.WriteDataFile(data, "qclog_hops"); err != nil {
		return err
	}

	description := "Heatmap of candidate taxa for downstream aDNA analysis, with intensity " +
		"representing additive categories of possible 'positive' hits."
	if len(data) > crowdedSamples {
		description += " Large numbers of samples can result in Y-axis labels overlapping."
	}

	b.AddSection(report.Section{
		Name:        "Potential Candidates",
		Anchor:      "hops_heatmap",
		Description: description,
		Helptext:    helptext,
		Heatmap:     NewHeatmap(data),
	})
	return nil
}

// parseOverview decodes sample -> taxon -> category. Categories may be
// wrapped in single-element lists.
func parseOverview(f *parser.LogFile) (map[string]report.Metrics, error) {
	raw, err := f.ReadAll()
	if err != nil {
		return nil, err
	}

	var doc map[string]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.Path(), err)
	}

	samples := make(map[string]report.Metrics, len(doc))
	for name, taxa := range doc {
		m := make(report.Metrics, len(taxa))
		for taxon, v := range taxa {
			if list, ok := v.([]any); ok {
				if len(list) == 0 {
					continue
				}
				v = list[0]
			}
			if n, ok := v.(float64); ok {
				m[taxon] = n
			}
		}
		samples[name] = m
	}
	return samples, nil
}

// NewHeatmap lays data out with one row per sample and one column per
// taxon, both sorted. Taxa a sample lacks are 0.
func NewHeatmap(data report.SampleData) *report.Heatmap {
	samples := data.Samples()
	taxa := data.Keys()

	xcats := make([]string, len(taxa))
	for i, t := range taxa {
		xcats[i] = strings.ReplaceAll(t, "_", " ")
	}

	values := make([][]float64, len(samples))
	for i, s := range samples {
		row := make([]float64, len(taxa))
		for j, t := range taxa {
			if v, ok := parser.ToFloat(data[s][t]); ok {
				row[j] = v
			}
		}
		values[i] = row
	}

	return &report.Heatmap{
		ID:     "hops-heatmap",
		Title:  "HOPS: Potential Candidates",
		XCats:  xcats,
		YCats:  samples,
		Values: values,
		XLabel: "Node",
		YLabel: "Sample",
	}
}
