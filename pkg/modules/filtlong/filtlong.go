// Package filtlong parses Filtlong long read filtering logs.
package filtlong

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "filtlong"

// Metric keys.
const (
	TargetBases = "Target bases"
	BasesKept   = "Bases kept"
)

// Filtlong colours its terminal output.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Module parses Filtlong logs.
type Module struct{}

// New creates the Filtlong module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "Filtlong",
		Anchor: "filtlong",
		Href:   "https://github.com/rrwick/Filtlong",
		Info:   "Filters long reads by quality.",
	}
}

func (m *Module) SearchKeys() []string {
	return []string{searchKey}
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	data := make(report.SampleData)

	for _, f := range b.FindLogFiles(searchKey) {
		if err := parseLog(ctx, b, f, data); err != nil {
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
	b.AddSoftwareVersion("")

	if err := b.WriteDataFile(data, "qclog_filtlong"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: TargetBases, Header: b.ReadCountHeader(report.Header{
			Title:       "Target bases (%s)",
			Description: "Keep only the best reads up to this many total bases (%s)",
			Scale:       "Greens",
		})},
		{Key: BasesKept, Header: b.ReadCountHeader(report.Header{
			Title:       "Bases kept (%s)",
			Description: "Bases kept (%s)",
			Scale:       "Purples",
			Hidden:      true,
		})},
	})
	return nil
}

// parseLog reads the "target:" and "keeping" lines of one log. When reads
// already fall below the target no kept count is logged and the field is
// left out.
func parseLog(ctx context.Context, b *modules.Base, f *parser.LogFile, data report.SampleData) error {
	name := f.SampleName

	return parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		text := ansiRe.ReplaceAllString(line.Content, "")
		switch {
		case strings.Contains(text, "target:"):
			v, ok := secondFieldBases(text)
			if !ok {
				return nil
			}
			b.SaveSample(data, name, report.Metrics{TargetBases: v}, f)
		case strings.Contains(text, "keeping"):
			if _, ok := data[name]; !ok {
				return nil
			}
			if v, ok := secondFieldBases(text); ok {
				data[name][BasesKept] = v
			}
		case strings.Contains(text, "fall below"):
			if _, ok := data[name]; ok {
				b.Log().Debugf("%s: reads already fall below target after filtering", name)
			}
		}
		return nil
	})
}

// secondFieldBases parses the base count following the label, dropping "."
// thousands separators.
func secondFieldBases(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ".", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
