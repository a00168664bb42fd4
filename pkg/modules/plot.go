package modules

import (
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

// BarData extracts the numeric values of cats from data for a bar graph.
// Samples without any of the categories are left out.
func BarData(data report.SampleData, cats []report.Category) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for sample, metrics := range data {
		row := make(map[string]float64)
		for _, c := range cats {
			if v, ok := parser.ToFloat(metrics[c.Key]); ok {
				row[c.Key] = v
			}
		}
		if len(row) > 0 {
			out[sample] = row
		}
	}
	return out
}

// NewBarGraph builds a single-dataset bar graph over data.
func NewBarGraph(id, title, ylab string, data report.SampleData, cats []report.Category) *report.BarGraph {
	return &report.BarGraph{
		ID:     id,
		Title:  title,
		YLabel: ylab,
		Datasets: []report.BarDataset{{
			Categories: cats,
			Data:       BarData(data, cats),
		}},
	}
}
