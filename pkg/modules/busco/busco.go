// Package busco parses BUSCO short summary files.
package busco

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	searchKey  = "busco"
	lineageKey = "lineage_dataset"
)

var (
	versionRe = regexp.MustCompile(`# BUSCO version is: ([\d\.]+)`)
	nonWordRe = regexp.MustCompile(`\W+`)
)

// summaryKeys maps metric keys to the label BUSCO prints beside the count.
var summaryKeys = []struct {
	key, label string
}{
	{"complete", "Complete BUSCOs"},
	{"complete_single_copy", "Complete and single-copy BUSCOs"},
	{"complete_duplicated", "Complete and duplicated BUSCOs"},
	{"fragmented", "Fragmented BUSCOs"},
	{"missing", "Missing BUSCOs"},
	{"total", "Total BUSCO groups searched"},
}

var categories = []report.Category{
	{Key: "complete_single_copy", Name: "Complete and single-copy BUSCOs", Color: "#31a354"},
	{Key: "fragmented", Name: "Fragmented BUSCOs", Color: "#fee8c8"},
	{Key: "complete_duplicated", Name: "Complete and duplicated BUSCOs", Color: "#fdbb84"},
	{Key: "missing", Name: "Missing BUSCOs", Color: "#e34a33"},
}

// Module parses BUSCO summaries.
type Module struct{}

// New creates the BUSCO module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "BUSCO",
		Anchor: "busco",
		Href:   "http://busco.ezlab.org/",
		Info:   "Assesses genome assembly and annotation completeness",
		DOIs:   []string{"10.1093/bioinformatics/btv351"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		metrics, err := parseSummary(ctx, b, f)
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

	if err := b.WriteDataFile(data, "qclog_busco"); err != nil {
		return err
	}

	for _, lineage := range lineages(data) {
		b.AddSection(lineageSection(lineage, data))
	}
	return nil
}

func parseSummary(ctx context.Context, b *modules.Base, f *parser.LogFile) (report.Metrics, error) {
	metrics := make(report.Metrics)
	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		text := line.Content
		if strings.HasPrefix(text, "# BUSCO version is") {
			if m := versionRe.FindStringSubmatch(text); m != nil {
				b.AddSoftwareVersion(m[1])
			}
		}

		for _, k := range summaryKeys {
			if !strings.Contains(text, k.label) {
				continue
			}
			count := strings.Split(strings.TrimSpace(text), "\t")[0]
			if v, err := strconv.ParseFloat(count, 64); err == nil {
				metrics[k.key] = v
			}
		}

		if strings.Contains(text, "The lineage dataset is:") {
			lineage := strings.Replace(text, "# The lineage dataset is: ", "", 1)
			lineage, _, _ = strings.Cut(lineage, " (Creation date:")
			metrics[lineageKey] = lineage
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

// lineages returns the distinct lineage datasets in data, sorted. Samples
// without a lineage are grouped under "".
func lineages(data report.SampleData) []string {
	seen := make(map[string]bool)
	for _, m := range data {
		lin, _ := m[lineageKey].(string)
		seen[lin] = true
	}
	out := make([]string, 0, len(seen))
	for lin := range seen {
		out = append(out, lin)
	}
	sort.Strings(out)
	return out
}

func lineageSection(lineage string, data report.SampleData) report.Section {
	subset := make(report.SampleData)
	for name, m := range data {
		if lin, _ := m[lineageKey].(string); lin == lineage {
			subset[name] = m
		}
	}

	id := "None"
	name := "Lineage Assessment"
	title := "BUSCO: Assessment Results"
	if lineage != "" {
		id = nonWordRe.ReplaceAllString(lineage, "_")
		name = "Lineage: " + lineage
		title = "BUSCO Assessment Results: " + lineage
	}

	return report.Section{
		Name:     name,
		Anchor:   "busco-lineage-" + id,
		BarGraph: modules.NewBarGraph("busco_plot_"+id, title, "# BUSCOs", subset, categories),
	}
}
