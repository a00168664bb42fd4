// Package diamond parses DIAMOND run logs written with --log.
package diamond

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const searchKey = "diamond"

var (
	versionRe = regexp.MustCompile(`diamond v([\d\.]+)`)
	alignedRe = regexp.MustCompile(`^(\d+) queries aligned`)
)

// Module parses DIAMOND logs.
type Module struct{}

// New creates the DIAMOND module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "DIAMOND",
		Anchor: "diamond",
		Href:   "https://github.com/bbuchfink/diamond",
		Info:   "Sequence aligner for protein and translated DNA searches, a drop-in replacement for the NCBI BLAST",
		DOIs:   []string{"10.1038/s41592-021-01101-x"},
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

	if err := b.WriteDataFile(data, "qclog_diamond"); err != nil {
		return err
	}

	b.GeneralStatsAddCols(data, []report.Column{
		{Key: "queries_aligned", Header: report.Header{
			Title:       "Queries aligned",
			Description: "number of queries aligned",
			Scale:       "YlGn",
			Format:      "%.0f",
		}},
	})
	return nil
}

// parseLog takes the sample name from the blastx --out or --query argument,
// falling back to the log's directory name.
func parseLog(ctx context.Context, b *modules.Base, f *parser.LogFile, data report.SampleData) error {
	name := b.CleanSampleName(filepath.Base(f.Root), f)

	return parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		text := line.Content
		if strings.Contains(text, "diamond blastx") {
			if arg, ok := flagValue(text, "--out"); ok {
				name = b.CleanSampleName(filepath.Base(arg), f)
			} else if arg, ok := flagValue(text, "--query"); ok {
				name = b.CleanSampleName(filepath.Base(arg), f)
			}
		}

		if m := versionRe.FindStringSubmatch(text); m != nil {
			b.AddSoftwareVersion(m[1])
		}

		if m := alignedRe.FindStringSubmatch(text); m != nil {
			n, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return nil
			}
			b.SaveSample(data, name, report.Metrics{"queries_aligned": n}, f)
		}
		return nil
	})
}

// flagValue returns the argument following flag on a command line.
func flagValue(line, flag string) (string, bool) {
	_, rest, found := strings.Cut(line, flag+" ")
	if !found {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
