// Package modulestest provides helpers for testing tool modules against
// fixture files.
package modulestest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/report"
)

// Writer is an in-memory modules.DataWriter.
type Writer struct {
	Written map[string]report.SampleData
}

// WriteData records data under name.
func (w *Writer) WriteData(name string, data report.SampleData) (string, error) {
	if w.Written == nil {
		w.Written = make(map[string]report.SampleData)
	}
	w.Written[name] = data
	return name, nil
}

// Result is the outcome of running a module over fixtures.
type Result struct {
	Base   *modules.Base
	Writer *Writer
	Err    error
}

// Report returns the module report.
func (r *Result) Report() *report.ModuleReport {
	return r.Base.Report()
}

// Data returns the data file written under name.
func (r *Result) Data(name string) report.SampleData {
	return r.Writer.Written[name]
}

// Section returns the first section whose anchor or bar graph, heatmap or
// table ID equals id.
func (r *Result) Section(id string) *report.Section {
	for i, s := range r.Report().Sections {
		if s.Anchor == id ||
			(s.BarGraph != nil && s.BarGraph.ID == id) ||
			(s.Heatmap != nil && s.Heatmap.ID == id) ||
			(s.Table != nil && s.Table.ID == id) {
			return &r.Report().Sections[i]
		}
	}
	return nil
}

// Run writes files (relative path -> content) to a temporary directory,
// discovers them with the module's search keys and runs the module.
// modify may adjust the configuration before validation.
func Run(t *testing.T, m modules.Module, files map[string]string, modify func(*config.Config)) *Result {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating fixture dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}

	cfg := config.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("config.Validate() error = %v", err)
	}

	finder, err := discovery.NewFinder(cfg)
	if err != nil {
		t.Fatalf("discovery.NewFinder() error = %v", err)
	}
	found, err := finder.Find(context.Background(), []string{dir}, m.SearchKeys()...)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	w := &Writer{}
	b := modules.NewBase(m.Info(), cfg, found, modules.WithDataWriter(w))
	return &Result{
		Base:   b,
		Writer: w,
		Err:    m.Run(context.Background(), b),
	}
}
