// Package theta2 parses THetA2 BEST.results files.
package theta2

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	searchKey = "theta2"

	// Subclones past this index are summed into proportion_tumour_gt5.
	maxSubclones = 5
)

var categories = []report.Category{
	{Key: "proportion_germline", Name: "Germline"},
	{Key: "proportion_tumour_1", Name: "Tumour Subclone 1"},
	{Key: "proportion_tumour_2", Name: "Tumour Subclone 2"},
	{Key: "proportion_tumour_3", Name: "Tumour Subclone 3"},
	{Key: "proportion_tumour_4", Name: "Tumour Subclone 4"},
	{Key: "proportion_tumour_5", Name: "Tumour Subclone 5"},
	{Key: "proportion_tumour_gt5", Name: "Tumour Subclones > 5"},
}

// Module parses THetA2 results.
type Module struct{}

// New creates the THetA2 module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "THetA2",
		Anchor: "theta2",
		Href:   "http://compbio.cs.brown.edu/projects/theta/",
		Info:   "Estimates tumour purity and clonal / subclonal copy number.",
		DOIs:   []string{"10.1093/bioinformatics/btu651", "10.1186/gb-2013-14-7-r80"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		metrics, err := parseResults(ctx, f)
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

	if err := b.WriteDataFile(data, "qclog_theta2"); err != nil {
		return err
	}

	b.AddSection(report.Section{
		Name:        "Tumour Subclone Purities",
		Anchor:      "theta2-purities",
		Description: "Purities of tumour subclones. NB: Only first maximum likelihood solution for each sample shown.",
		BarGraph:    modules.NewBarGraph("theta2_purity_plot", "THetA2: Tumour Subclone Purities", "% Purity", data, categories),
	})
	return nil
}

// parseResults reads the purities of the first maximum likelihood solution,
// the first non-comment row. Proportions are stored as percentages.
func parseResults(ctx context.Context, f *parser.LogFile) (report.Metrics, error) {
	var metrics report.Metrics
	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		if strings.HasPrefix(line.Content, "#") {
			return nil
		}
		m, err := parsePurities(line.Content)
		if err != nil {
			return fmt.Errorf("line %d: %w", line.LineNum, err)
		}
		metrics = m
		return parser.ErrStopScan
	})
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func parsePurities(row string) (report.Metrics, error) {
	cols := strings.Split(row, "\t")
	if len(cols) < 2 {
		return nil, fmt.Errorf("expected a purities column")
	}

	var props []float64
	for _, p := range strings.Split(cols[1], ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing purity %q: %w", p, err)
		}
		props = append(props, v*100)
	}

	metrics := report.Metrics{"proportion_germline": props[0]}
	gt := 0.0
	for i, v := range props[1:] {
		if i < maxSubclones {
			metrics[fmt.Sprintf("proportion_tumour_%d", i+1)] = v
		} else {
			gt += v
			metrics["proportion_tumour_gt5"] = gt
		}
	}
	return metrics, nil
}
