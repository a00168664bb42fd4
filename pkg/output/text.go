package output

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/ccollicutt/qclog/pkg/report"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, rep *report.Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(rep, w)
	}
	return f.formatFull(rep, w)
}

func (f *TextFormatter) formatQuiet(rep *report.Report, w io.Writer) error {
	s := Summarize(rep)
	fmt.Fprintf(w, "qclog: %d modules with samples, %d skipped, %d samples\n",
		s.ModulesWithSamples, s.ModulesSkipped, s.Samples)
	return nil
}

func (f *TextFormatter) formatFull(rep *report.Report, w io.Writer) error {
	// Header
	fmt.Fprintln(w, "=== qclog Report ===")
	fmt.Fprintln(w)

	if len(rep.Modules) == 0 {
		fmt.Fprintln(w, "No samples found")
		fmt.Fprintln(w)
	}
	for _, m := range rep.Modules {
		f.formatModule(m, w)
	}

	if !rep.GeneralStats.Empty() {
		if err := f.formatGeneralStats(rep.GeneralStats, w); err != nil {
			return err
		}
	}

	// Summary
	s := Summarize(rep)
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d modules with samples, %d skipped, %d samples\n",
		s.ModulesWithSamples, s.ModulesSkipped, s.Samples)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Files matched: %s\n", humanize.Comma(int64(s.FilesMatched)))
		if len(rep.Skipped) > 0 {
			fmt.Fprintf(w, "Skipped: %s\n", strings.Join(rep.Skipped, ", "))
		}
		if rep.Metadata.DataDir != "" {
			fmt.Fprintf(w, "Data directory: %s\n", rep.Metadata.DataDir)
		}
		fmt.Fprintf(w, "Duration: %s\n", rep.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatModule(m *report.ModuleReport, w io.Writer) {
	fmt.Fprintf(w, "[%s] %s: %d sample(s)\n", m.Anchor, m.Name, m.Samples)

	for _, program := range sortedKeys(m.SoftwareVersions) {
		if versions := m.SoftwareVersions[program]; len(versions) > 0 {
			fmt.Fprintf(w, "  Version: %s %s\n", program, strings.Join(versions, ", "))
		}
	}
	for _, warning := range m.Warnings {
		fmt.Fprintf(w, "  Warning: %s\n", warning)
	}

	if f.opts.Verbose {
		if m.Info != "" {
			fmt.Fprintf(w, "  %s\n", m.Info)
		}
		for _, s := range m.Sections {
			fmt.Fprintf(w, "  Section: %s (%s)\n", s.Name, s.Anchor)
		}
		for _, path := range m.DataFiles {
			fmt.Fprintf(w, "  Data file: %s\n", path)
		}
		for _, ds := range m.DataSources {
			if ds.Sample == "" {
				fmt.Fprintf(w, "  Source: %s\n", ds.Path)
				continue
			}
			fmt.Fprintf(w, "  Source: %s <- %s\n", ds.Sample, ds.Path)
		}
	}

	fmt.Fprintln(w)
}

func (f *TextFormatter) formatGeneralStats(gs *report.GeneralStats, w io.Writer) error {
	fmt.Fprintln(w, "General Statistics")

	var cols []report.StatsColumn
	for _, c := range gs.Columns() {
		if c.Header.Hidden && !f.opts.Verbose {
			continue
		}
		cols = append(cols, c)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"Sample"}
	for _, c := range cols {
		header = append(header, c.Module+": "+c.Header.Title)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, sample := range gs.Samples() {
		row := []string{sample}
		for _, c := range cols {
			v, ok := gs.Value(sample, c)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, FormatValue(v, c.Header))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing general statistics: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// FormatValue renders a table value using the header's number format and
// suffix. Whole numbers without a format get thousands separators.
func FormatValue(v any, h report.Header) string {
	var s string
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int64:
		s = humanize.Comma(n)
	case int:
		s = humanize.Comma(int64(n))
	case float64:
		switch {
		case h.Format != "":
			s = fmt.Sprintf(h.Format, n)
		case n == math.Trunc(n) && math.Abs(n) < 1e15:
			s = humanize.Comma(int64(n))
		default:
			s = fmt.Sprintf("%.2f", n)
		}
	default:
		s = fmt.Sprint(n)
	}
	return s + h.Suffix
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
