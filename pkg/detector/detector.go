// Package detector reports which tool modules would read a given file.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/all"
	"github.com/ccollicutt/qclog/pkg/parser"
)

// DetectionResult holds the result of sniffing a file.
type DetectionResult struct {
	Path string `json:"path"`

	// SampleName is the sample name guessed from the filename.
	SampleName string `json:"sample_name"`

	// Matches are the search keys the file satisfies, sorted by key.
	Matches []Match `json:"matches"`

	// Preview holds the first non-empty lines of the file.
	Preview []string `json:"preview,omitempty"`
}

// Match is a search key a file satisfies and the module that reads it.
type Match struct {
	Key string `json:"key"`

	// Module is the anchor of the module reading Key, empty when the key
	// comes from a custom search pattern no module uses.
	Module     string `json:"module,omitempty"`
	ModuleName string `json:"module_name,omitempty"`
}

// Detector sniffs files against the configured search patterns.
type Detector struct {
	finder     *discovery.Finder
	registry   *modules.Registry
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of preview lines (default 5).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n >= 0 {
			d.sampleSize = n
		}
	}
}

// WithRegistry sets the modules used to name matches.
func WithRegistry(r *modules.Registry) Option {
	return func(d *Detector) {
		d.registry = r
	}
}

// New creates a Detector for a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Detector, error) {
	finder, err := discovery.NewFinder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating file finder: %w", err)
	}
	d := &Detector{
		finder:     finder,
		sampleSize: 5,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.registry == nil {
		d.registry = all.Registry()
	}
	return d, nil
}

// DetectFromFile reports the search keys path satisfies.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	keys, err := d.finder.Match(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", path, err)
	}

	f := &parser.LogFile{Root: filepath.Dir(path), Filename: filepath.Base(path)}
	result := &DetectionResult{
		Path:       path,
		SampleName: d.finder.Cleaner().Clean(f.Filename, f.Root),
		Matches:    d.matches(keys),
	}

	result.Preview, err = d.sampleFile(ctx, f)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Detector) matches(keys []string) []Match {
	byKey := make(map[string]modules.Module)
	for _, m := range d.registry.All() {
		for _, k := range m.SearchKeys() {
			byKey[k] = m
		}
	}

	out := make([]Match, 0, len(keys))
	for _, k := range keys {
		match := Match{Key: k}
		if m, ok := byKey[k]; ok {
			match.Module = m.Info().Anchor
			match.ModuleName = m.Info().Name
		}
		out = append(out, match)
	}
	return out
}

// sampleFile reads up to sampleSize non-empty lines, decompressing gzip
// content.
func (d *Detector) sampleFile(ctx context.Context, f *parser.LogFile) ([]string, error) {
	if d.sampleSize == 0 {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var lines []string
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Modules returns the distinct module anchors among the matches.
func (r *DetectionResult) Modules() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.Matches {
		if m.Module != "" && !seen[m.Module] {
			seen[m.Module] = true
			out = append(out, m.Module)
		}
	}
	return out
}

// HasMatch returns true if at least one search key matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
