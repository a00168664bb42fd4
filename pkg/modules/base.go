package modules

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/logger"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

// Base is the host surface handed to a module for one run.
type Base struct {
	cfg     *config.Config
	files   *discovery.Result
	cleaner *parser.Cleaner
	stats   *report.GeneralStats
	writer  DataWriter
	out     *report.ModuleReport
	log     *logrus.Entry

	ignoreGlobs []string
	ignoreRegex []*regexp.Regexp
}

// BaseOption configures a Base.
type BaseOption func(*Base)

// WithDataWriter sets the writer used by WriteDataFile. Without one, data
// files are not written.
func WithDataWriter(w DataWriter) BaseOption {
	return func(b *Base) {
		b.writer = w
	}
}

// WithGeneralStats sets the shared general statistics table.
func WithGeneralStats(gs *report.GeneralStats) BaseOption {
	return func(b *Base) {
		b.stats = gs
	}
}

// WithExtraIgnoreSamples adds sample name globs to those from the config.
func WithExtraIgnoreSamples(globs []string) BaseOption {
	return func(b *Base) {
		b.ignoreGlobs = append(b.ignoreGlobs, globs...)
	}
}

// NewBase creates the host surface for the module described by info.
func NewBase(info report.ModuleInfo, cfg *config.Config, files *discovery.Result, opts ...BaseOption) *Base {
	if files == nil {
		files = discovery.NewResult(nil)
	}
	b := &Base{
		cfg:         cfg,
		files:       files,
		cleaner:     parser.NewCleaner(cfg),
		out:         report.NewModuleReport(info),
		log:         logger.ForModule(info.Anchor),
		ignoreGlobs: append([]string(nil), cfg.IgnoreSamples...),
		ignoreRegex: cfg.CompiledIgnoreSamplesRegex(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.stats == nil {
		b.stats = &report.GeneralStats{}
	}
	return b
}

// Config returns the run configuration.
func (b *Base) Config() *config.Config {
	return b.cfg
}

// Log returns a logger tagged with the module anchor.
func (b *Base) Log() *logrus.Entry {
	return b.log
}

// Report returns the module's report.
func (b *Base) Report() *report.ModuleReport {
	return b.out
}

// GeneralStats returns the shared general statistics table.
func (b *Base) GeneralStats() *report.GeneralStats {
	return b.stats
}

// FindLogFiles returns the discovered files for key whose sample name
// guess is not ignored.
func (b *Base) FindLogFiles(key string) []*parser.LogFile {
	var out []*parser.LogFile
	for _, f := range b.files.Files(key) {
		if b.IsIgnoredSample(f.SampleName) {
			b.log.Debugf("Ignoring file %s (sample %s)", f.Path(), f.SampleName)
			continue
		}
		out = append(out, f)
	}
	return out
}

// CleanSampleName cleans a sample name found inside f.
func (b *Base) CleanSampleName(name string, f *parser.LogFile) string {
	root := ""
	if f != nil {
		root = f.Root
	}
	return b.cleaner.Clean(name, root)
}

// IsIgnoredSample reports whether name matches an ignore glob or regex.
func (b *Base) IsIgnoredSample(name string) bool {
	for _, g := range b.ignoreGlobs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	for _, re := range b.ignoreRegex {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IgnoreSamples returns data without ignored samples.
func (b *Base) IgnoreSamples(data report.SampleData) report.SampleData {
	out := make(report.SampleData, len(data))
	for s, m := range data {
		if b.IsIgnoredSample(s) {
			continue
		}
		out[s] = m
	}
	return out
}

// SaveSample stores metrics under name, overwriting any earlier record for
// the same name, and records f as the sample's data source. A sample has one
// data source; the last file saved wins.
func (b *Base) SaveSample(data report.SampleData, name string, metrics report.Metrics, f *parser.LogFile) {
	if _, ok := data[name]; ok {
		b.log.Debugf("Duplicate sample name found! Overwriting: %s", name)
	}
	data[name] = metrics
	if f == nil {
		return
	}
	for i, ds := range b.out.DataSources {
		if ds.Sample == name && ds.Section == "" {
			b.out.DataSources[i].Path = f.Path()
			return
		}
	}
	b.AddDataSource(f, name, "")
}

// AddDataSource records that sample's data came from f.
func (b *Base) AddDataSource(f *parser.LogFile, sample, section string) {
	b.out.DataSources = append(b.out.DataSources, report.DataSource{
		Sample:  sample,
		Path:    f.Path(),
		Section: section,
	})
}

// WriteDataFile writes data through the host's data writer.
func (b *Base) WriteDataFile(data report.SampleData, name string) error {
	if b.writer == nil {
		return nil
	}
	path, err := b.writer.WriteData(name, data)
	if err != nil {
		return fmt.Errorf("writing data file %s: %w", name, err)
	}
	b.out.DataFiles = append(b.out.DataFiles, path)
	return nil
}

// GeneralStatsAddCols adds columns for data to the general statistics table.
func (b *Base) GeneralStatsAddCols(data report.SampleData, columns []report.Column) {
	b.stats.AddCols(b.out.Anchor, data, columns)
}

// AddSection appends a section to the module's report.
func (b *Base) AddSection(s report.Section) {
	if s.Anchor == "" {
		s.Anchor = fmt.Sprintf("%s-section-%d", b.out.Anchor, len(b.out.Sections)+1)
	}
	b.out.Sections = append(b.out.Sections, s)
}

// AddSoftwareVersion records a version of the module's tool. An empty
// version marks the tool as used with an unknown version.
func (b *Base) AddSoftwareVersion(version string) {
	b.out.AddSoftwareVersion("", version)
}

// AddWarning attaches a note to the module's report and logs it.
func (b *Base) AddWarning(msg string) {
	b.log.Warn(msg)
	b.out.Warnings = append(b.out.Warnings, msg)
}

// FileError handles an error reading f. Cancellation is returned so the run
// stops; anything else is logged and the file is skipped (nil is returned).
func (b *Base) FileError(ctx context.Context, f *parser.LogFile, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	b.log.WithField("path", f.Path()).Warnf("Skipping file: %v", err)
	return nil
}

// Finish records the samples in data and logs how many there were.
func (b *Base) Finish(data report.SampleData) {
	b.out.Samples = len(data)
	b.out.SampleNames = data.Samples()
	b.log.Infof("Found %d reports", len(data))
}

// ReadCountHeader fills h for a read count column using the configured
// multiplier. A "%s" in the title is replaced by the count prefix and one in
// the description by the count description.
func (b *Base) ReadCountHeader(h report.Header) report.Header {
	return countHeader(h, b.cfg.ReadCount, "read_count")
}

// BaseCountHeader fills h for a base count column.
func (b *Base) BaseCountHeader(h report.Header) report.Header {
	return countHeader(h, b.cfg.BaseCount, "base_count")
}

func countHeader(h report.Header, c config.CountConfig, sharedKey string) report.Header {
	mult := c.Multiplier
	h.Modify = func(v float64) float64 { return v * mult }
	h.SharedKey = sharedKey
	if strings.Contains(h.Title, "%s") {
		h.Title = fmt.Sprintf(h.Title, c.Prefix)
	}
	if strings.Contains(h.Description, "%s") {
		h.Description = fmt.Sprintf(h.Description, c.Desc)
	}
	return h
}

// SortedKeys returns the keys of a string-keyed map in order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
