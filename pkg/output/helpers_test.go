package output

import (
	"time"

	"github.com/ccollicutt/qclog/pkg/report"
)

func createTestReport() *report.Report {
	rep := report.New()

	m := report.NewModuleReport(report.ModuleInfo{Name: "leeHom", Anchor: "leehom", Info: "Bayesian reconstruction."})
	m.Samples = 2
	m.AddSoftwareVersion("", "1.2.15")
	m.Sections = []report.Section{{Name: "Read types", Anchor: "leehom-reads"}}
	m.DataFiles = []string{"qclog_data/qclog_leehom.tsv"}
	m.DataSources = []report.DataSource{{Sample: "libA", Path: "/data/libA.log"}}
	m.Warnings = []string{"odd input"}
	rep.Modules = append(rep.Modules, m)

	rep.GeneralStats.AddCols("leehom", report.SampleData{
		"libA": {"merged": int64(1234567), "pct": 45.678, "kind": "PE"},
		"libB": {"merged": int64(12), "kind": "SE"},
	}, []report.Column{
		{Key: "merged", Header: report.Header{Title: "Merged"}},
		{Key: "pct", Header: report.Header{Title: "Pct", Format: "%.1f", Suffix: "%"}},
		{Key: "kind", Header: report.Header{Title: "Kind", Hidden: true}},
	})

	rep.Skipped = []string{"hisat2", "theta2"}
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	rep.Metadata = report.Metadata{
		AnalysisPaths: []string{"/data"},
		FilesMatched:  3,
		DataDir:       "qclog_data",
		StartTime:     start,
		EndTime:       start.Add(1500 * time.Millisecond),
		Duration:      1500 * time.Millisecond,
	}
	return rep
}
