package report

import (
	"encoding/json"
	"sort"
)

// StatsBlock is one module's contribution to the general statistics table.
type StatsBlock struct {
	Module  string     `json:"module"`
	Columns []Column   `json:"columns"`
	Data    SampleData `json:"data"`
}

// StatsColumn is a column of the merged general statistics table.
type StatsColumn struct {
	// ID is unique across modules: "<module>-<key>".
	ID     string `json:"id"`
	Module string `json:"module"`
	Column
}

// GeneralStats is the report-wide summary table. Modules add columns;
// nothing is ever removed.
type GeneralStats struct {
	blocks []StatsBlock
}

// AddCols adds the given columns for the samples in data. Only metrics named
// by a column are kept. With no columns, every metric key becomes a column
// titled by its key.
func (g *GeneralStats) AddCols(module string, data SampleData, columns []Column) {
	if len(columns) == 0 {
		for _, k := range data.Keys() {
			columns = append(columns, Column{Key: k, Header: Header{Title: k}})
		}
	}

	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c.Key] = true
	}

	kept := make(SampleData)
	for sample, metrics := range data {
		row := make(Metrics)
		for k, v := range metrics {
			if wanted[k] {
				row[k] = v
			}
		}
		if len(row) > 0 {
			kept[sample] = row
		}
	}
	if len(kept) == 0 {
		return
	}

	g.blocks = append(g.blocks, StatsBlock{
		Module:  module,
		Columns: append([]Column(nil), columns...),
		Data:    kept,
	})
}

// Blocks returns the contributions in the order they were added.
func (g *GeneralStats) Blocks() []StatsBlock {
	return g.blocks
}

// Empty reports whether no module has added columns.
func (g *GeneralStats) Empty() bool {
	return len(g.blocks) == 0
}

// Samples returns the union of sample names across all blocks, sorted.
func (g *GeneralStats) Samples() []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range g.blocks {
		for s := range b.Data {
			if !seen[s] {
				seen[s] = true
				names = append(names, s)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Columns returns every column in contribution order.
func (g *GeneralStats) Columns() []StatsColumn {
	var cols []StatsColumn
	for _, b := range g.blocks {
		for _, c := range b.Columns {
			cols = append(cols, StatsColumn{ID: b.Module + "-" + c.Key, Module: b.Module, Column: c})
		}
	}
	return cols
}

// Value returns the display value of col for sample, with the header's
// Modify applied to numeric values.
func (g *GeneralStats) Value(sample string, col StatsColumn) (any, bool) {
	for _, b := range g.blocks {
		if b.Module != col.Module {
			continue
		}
		if v, ok := b.Data[sample][col.Key]; ok {
			return col.Header.Apply(v), true
		}
	}
	return nil, false
}

// Rows returns sample -> column ID -> display value.
func (g *GeneralStats) Rows() map[string]map[string]any {
	rows := make(map[string]map[string]any)
	cols := g.Columns()
	for _, s := range g.Samples() {
		row := make(map[string]any)
		for _, c := range cols {
			if v, ok := g.Value(s, c); ok {
				row[c.ID] = v
			}
		}
		rows[s] = row
	}
	return rows
}

// MarshalJSON renders the merged table.
func (g *GeneralStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []StatsColumn             `json:"columns"`
		Rows    map[string]map[string]any `json:"rows"`
	}{
		Columns: g.Columns(),
		Rows:    g.Rows(),
	})
}

// Apply returns v with Modify applied when v is numeric.
func (h Header) Apply(v any) any {
	if h.Modify == nil {
		return v
	}
	switch n := v.(type) {
	case float64:
		return h.Modify(n)
	case int64:
		return h.Modify(float64(n))
	case int:
		return h.Modify(float64(n))
	default:
		return v
	}
}
