// Package librarian parses Librarian library type prediction tables.
package librarian

import (
	"context"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	searchKey    = "librarian"
	sampleColumn = "sample_name"
)

const helptext = `Some regions on the map are very specific to a certain library type, others
are more mixed. Therefore, for some test libraries the results will be much
clearer than for others.

The different plots are intended to provide a good overview of how similar
the test library is to published data. The cause of any deviations should
be inspected; the interpretation will be different depending on how
characteristic the composition signature of the library type and how far
off the projection of the test sample is.`

// Module parses Librarian heatmap tables.
type Module struct{}

// New creates the Librarian module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "Librarian",
		Anchor: "librarian",
		Href:   "https://github.com/DesmondWillowbrook/Librarian",
		Info:   "Predicts the sequencing library type from the base composition of a FastQ file.",
		DOIs:   []string{"10.12688/f1000research.125325.1"},
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		if err := parseTable(ctx, b, f, data); err != nil {
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

	if err := b.WriteDataFile(data, "qclog_librarian_data"); err != nil {
		return err
	}

	b.AddSection(report.Section{
		Name:   "Library Type Prediction",
		Anchor: "librarian-library-type",
		Description: "For each projected test library, the location on the Compositions/Probability Map " +
			"is determined. This plot shows how published library types are represented at the same location.",
		Helptext: helptext,
		Heatmap:  NewHeatmap(data),
	})

	if b.Config().Librarian.ShowGeneralStats {
		b.GeneralStatsAddCols(MostLikely(data), []report.Column{
			{Key: "most_likely_library_type", Header: report.Header{
				Title:       "Likely Type",
				Description: "Most likely library type.",
			}},
			{Key: "most_likely_library_type_score", Header: report.Header{
				Title:       "Type score",
				Description: "Library prediction type score",
				Format:      "%.0f",
				Scale:       "RdYlGn",
				Min:         report.Float(0),
				Max:         report.Float(100),
			}},
		})
	}
	return nil
}

// parseTable reads a header row naming the library types and one row per
// sample. The sample_name column gives the sample.
func parseTable(ctx context.Context, b *modules.Base, f *parser.LogFile, data report.SampleData) error {
	var headers []string
	return parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		fields := strings.Split(strings.TrimSpace(line.Content), "\t")
		if headers == nil {
			headers = fields
			return nil
		}
		if len(fields) == 1 && fields[0] == "" {
			return nil
		}

		metrics := make(report.Metrics)
		name := ""
		for i, h := range headers {
			if i >= len(fields) {
				break
			}
			if h == sampleColumn {
				name = fields[i]
				continue
			}
			if v, err := strconv.ParseFloat(fields[i], 64); err == nil {
				metrics[h] = v
			} else {
				metrics[h] = fields[i]
			}
		}
		if name == "" {
			b.Log().WithField("path", f.Path()).Debugf("Row %d has no %s", line.LineNum, sampleColumn)
			return nil
		}

		name = b.CleanSampleName(name, f)
		b.SaveSample(data, name, metrics, f)
		b.AddSoftwareVersion("")
		return nil
	})
}

// NewHeatmap lays out one row per sample and one column per library type,
// both sorted. Missing or non-numeric scores are 0.
func NewHeatmap(data report.SampleData) *report.Heatmap {
	samples := data.Samples()
	types := data.Keys()

	values := make([][]float64, len(samples))
	for i, s := range samples {
		row := make([]float64, len(types))
		for j, t := range types {
			if v, ok := parser.ToFloat(data[s][t]); ok {
				row[j] = v
			}
		}
		values[i] = row
	}

	return &report.Heatmap{
		ID:     "librarian-library-type-plot",
		Title:  "Librarian: Library Predictions",
		XCats:  types,
		YCats:  samples,
		Values: values,
		Min:    report.Float(0),
		Max:    report.Float(100),
		XLabel: "Library type",
		YLabel: "Sample name",
	}
}

// MostLikely returns each sample's highest scoring library type and its
// score. Ties go to the library type that sorts first.
func MostLikely(data report.SampleData) report.SampleData {
	out := make(report.SampleData, len(data))
	for s, metrics := range data {
		best := ""
		bestScore := 0.0
		for _, t := range modules.SortedKeys(metrics) {
			v, ok := parser.ToFloat(metrics[t])
			if !ok {
				continue
			}
			if best == "" || v > bestScore {
				best, bestScore = t, v
			}
		}
		if best == "" {
			continue
		}
		out[s] = report.Metrics{
			"most_likely_library_type":       best,
			"most_likely_library_type_score": bestScore,
		}
	}
	return out
}
