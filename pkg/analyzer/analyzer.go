// Package analyzer runs file discovery and the tool modules, and collects
// their contributions into a report.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/logger"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/all"
	"github.com/ccollicutt/qclog/pkg/report"
)

// Analyzer orchestrates discovery and module execution.
type Analyzer struct {
	cfg     *config.Config
	finder  *discovery.Finder
	modules []modules.Module

	// Options
	registry      *modules.Registry
	include       []string
	exclude       []string
	ignoreSamples []string
	writer        modules.DataWriter
	dataDir       string
	configFile    string
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithRegistry sets the modules to choose from. The default is every
// built-in module.
func WithRegistry(r *modules.Registry) AnalyzerOption {
	return func(a *Analyzer) {
		a.registry = r
	}
}

// WithModuleFilter limits the run to the named modules, in addition to the
// config's modules list.
func WithModuleFilter(anchors []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.include = append(a.include, anchors...)
	}
}

// WithExcludeModules skips the named modules.
func WithExcludeModules(anchors []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.exclude = append(a.exclude, anchors...)
	}
}

// WithIgnoreSamples adds sample name globs to those from the config.
func WithIgnoreSamples(globs []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.ignoreSamples = append(a.ignoreSamples, globs...)
	}
}

// WithDataWriter writes module data files through w. dir is recorded in the
// report metadata.
func WithDataWriter(w modules.DataWriter, dir string) AnalyzerOption {
	return func(a *Analyzer) {
		a.writer = w
		a.dataDir = dir
	}
}

// WithConfigFile records the configuration file path in the report metadata.
func WithConfigFile(path string) AnalyzerOption {
	return func(a *Analyzer) {
		a.configFile = path
	}
}

// NewAnalyzer creates a new analyzer from a validated configuration.
func NewAnalyzer(cfg *config.Config, opts ...AnalyzerOption) (*Analyzer, error) {
	a := &Analyzer{cfg: cfg}

	// Apply options
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = all.Registry()
	}

	include := append(append([]string(nil), cfg.Modules...), a.include...)
	exclude := append(append([]string(nil), cfg.ExcludeModules...), a.exclude...)
	selected, err := a.registry.Select(include, exclude)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no modules to run (check --module and --exclude filters)")
	}
	a.modules = selected

	finder, err := discovery.NewFinder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating file finder: %w", err)
	}
	a.finder = finder

	return a, nil
}

// Modules returns the modules the analyzer will run, in order.
func (a *Analyzer) Modules() []modules.Module {
	return append([]modules.Module(nil), a.modules...)
}

// Analyze searches paths for tool output and runs every selected module
// over what was found. Modules that find no samples are listed in
// Report.Skipped.
func (a *Analyzer) Analyze(ctx context.Context, paths []string) (*report.Report, error) {
	rep := report.New()
	rep.Metadata = report.Metadata{
		ConfigFile:    a.configFile,
		AnalysisPaths: paths,
		DataDir:       a.dataDir,
		StartTime:     time.Now(),
	}

	found, err := a.finder.Find(ctx, paths, a.searchKeys()...)
	if err != nil {
		return nil, fmt.Errorf("searching for log files: %w", err)
	}
	rep.Metadata.FilesMatched = found.Count()
	logger.WithField("files", found.Count()).Info("Search complete")

	for _, m := range a.modules {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info := m.Info()
		b := modules.NewBase(info, a.cfg, found,
			modules.WithGeneralStats(rep.GeneralStats),
			modules.WithDataWriter(a.writer),
			modules.WithExtraIgnoreSamples(a.ignoreSamples),
		)

		err := m.Run(ctx, b)
		if errors.Is(err, modules.ErrNoSamplesFound) {
			logger.ForModule(info.Anchor).Debug("No samples found")
			rep.Skipped = append(rep.Skipped, info.Anchor)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("running module %q: %w", info.Anchor, err)
		}
		rep.Modules = append(rep.Modules, b.Report())
	}

	rep.Metadata.EndTime = time.Now()
	rep.Metadata.Duration = rep.Metadata.EndTime.Sub(rep.Metadata.StartTime)

	return rep, nil
}

// searchKeys returns the union of the selected modules' search keys.
func (a *Analyzer) searchKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range a.modules {
		for _, k := range m.SearchKeys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
