// Package report holds the host-owned report state that modules contribute to:
// per-sample metrics, the general statistics table and per-module sections.
package report

import (
	"sort"
)

// Metrics maps a metric key to its value (float64, int64 or string).
type Metrics map[string]any

// SampleData maps a sample name to its metrics.
type SampleData map[string]Metrics

// Copy returns a copy of d whose metric maps can be modified freely.
func (d SampleData) Copy() SampleData {
	out := make(SampleData, len(d))
	for s, m := range d {
		cp := make(Metrics, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[s] = cp
	}
	return out
}

// Samples returns the sample names in sorted order.
func (d SampleData) Samples() []string {
	names := make([]string, 0, len(d))
	for s := range d {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

// Keys returns the union of metric keys across samples, sorted.
func (d SampleData) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range d {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Header describes how a metric is shown in a table column.
type Header struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Suffix      string   `json:"suffix,omitempty"`
	// Scale is a colour scale name; empty means no colouring.
	Scale string `json:"scale,omitempty"`
	// Format is a printf verb for numeric values, e.g. "%.2f".
	Format    string `json:"format,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
	SharedKey string `json:"shared_key,omitempty"`
	// Modify transforms numeric values before display.
	Modify func(float64) float64 `json:"-"`
}

// Column is a metric key with its header.
type Column struct {
	Key    string `json:"key"`
	Header Header `json:"header"`
}

// Float returns a pointer to v, for Header.Min and Header.Max.
func Float(v float64) *float64 {
	return &v
}

// ModuleInfo is the metadata a module exposes to the host.
type ModuleInfo struct {
	Name   string   `json:"name"`
	Anchor string   `json:"anchor"`
	Href   string   `json:"href,omitempty"`
	Info   string   `json:"info,omitempty"`
	DOIs   []string `json:"doi,omitempty"`
}

// DataSource records which file a sample's data came from.
type DataSource struct {
	Sample  string `json:"sample,omitempty"`
	Path    string `json:"path"`
	Section string `json:"section,omitempty"`
}

// Category is one stacked series in a bar graph.
type Category struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// BarDataset is one switchable view of a bar graph.
type BarDataset struct {
	Label      string                        `json:"label,omitempty"`
	Categories []Category                    `json:"categories"`
	Data       map[string]map[string]float64 `json:"data"`
}

// BarGraph is a stacked bar chart with one bar per sample.
type BarGraph struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	YLabel   string       `json:"ylab,omitempty"`
	Datasets []BarDataset `json:"datasets"`
}

// Heatmap is a matrix of values with labelled rows and columns.
type Heatmap struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	XCats  []string    `json:"xcats"`
	YCats  []string    `json:"ycats"`
	Values [][]float64 `json:"values"`
	Min    *float64    `json:"min,omitempty"`
	Max    *float64    `json:"max,omitempty"`
	XLabel string      `json:"xlab,omitempty"`
	YLabel string      `json:"ylab,omitempty"`
}

// Table is a standalone table shown inside a section.
type Table struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	FirstColumn string     `json:"col1_header,omitempty"`
	Columns     []Column   `json:"columns"`
	Data        SampleData `json:"data"`
}

// Section is a titled block of a module's report output.
type Section struct {
	Name        string    `json:"name,omitempty"`
	Anchor      string    `json:"anchor,omitempty"`
	Description string    `json:"description,omitempty"`
	Helptext    string    `json:"helptext,omitempty"`
	Content     string    `json:"content,omitempty"`
	BarGraph    *BarGraph `json:"bargraph,omitempty"`
	Heatmap     *Heatmap  `json:"heatmap,omitempty"`
	Table       *Table    `json:"table,omitempty"`
}
