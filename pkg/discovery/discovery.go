// Package discovery walks analysis paths and sorts files by search key.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/dustin/go-humanize"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/logger"
	"github.com/ccollicutt/qclog/pkg/parser"
)

// ErrFileTooLarge is returned for files above the configured size limit.
var ErrFileTooLarge = errors.New("file exceeds max_file_size")

// Finder matches files against search patterns.
type Finder struct {
	patterns    map[string][]config.SearchPattern
	ignoreFiles []string
	ignoreDirs  []string
	maxSize     uint64
	cleaner     *parser.Cleaner
}

// NewFinder creates a Finder from a validated configuration. Patterns from
// cfg.SearchPatterns replace the built-in patterns of the same key.
func NewFinder(cfg *config.Config) (*Finder, error) {
	patterns := DefaultPatterns()
	for key, override := range cfg.SearchPatterns {
		patterns[key] = override
	}
	for key, list := range patterns {
		for i := range list {
			if err := list[i].Compile(); err != nil {
				return nil, fmt.Errorf("search pattern %s[%d]: %w", key, i, err)
			}
		}
	}

	return &Finder{
		patterns:    patterns,
		ignoreFiles: cfg.IgnoreFiles,
		ignoreDirs:  cfg.IgnoreDirs,
		maxSize:     cfg.MaxFileSizeBytes(),
		cleaner:     parser.NewCleaner(cfg),
	}, nil
}

// Keys returns every known search key, sorted.
func (f *Finder) Keys() []string {
	keys := make([]string, 0, len(f.patterns))
	for k := range f.patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Patterns returns the patterns registered for key.
func (f *Finder) Patterns(key string) []config.SearchPattern {
	return f.patterns[key]
}

// Cleaner returns the sample name cleaner used for discovered files.
func (f *Finder) Cleaner() *parser.Cleaner {
	return f.cleaner
}

// Result holds discovered files grouped by search key.
type Result struct {
	files map[string][]*parser.LogFile
}

// NewResult creates a Result from pre-grouped files.
func NewResult(files map[string][]*parser.LogFile) *Result {
	if files == nil {
		files = make(map[string][]*parser.LogFile)
	}
	return &Result{files: files}
}

// Files returns the files matching key, in walk order.
func (r *Result) Files(key string) []*parser.LogFile {
	return r.files[key]
}

// Count returns the number of files matched across all keys.
func (r *Result) Count() int {
	n := 0
	for _, files := range r.files {
		n += len(files)
	}
	return n
}

// Find walks paths (files, directories or globs) and returns the files
// matching the given keys. With no keys, every known key is searched.
// Unreadable and oversize files are logged and skipped.
func (f *Finder) Find(ctx context.Context, paths []string, keys ...string) (*Result, error) {
	if len(keys) == 0 {
		keys = f.Keys()
	}
	sort.Strings(keys)

	expanded, err := parser.ExpandGlobs(paths)
	if err != nil {
		return nil, err
	}

	result := NewResult(nil)
	seen := make(map[string]bool)

	visit := func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err == nil {
			if seen[abs] {
				return nil
			}
			seen[abs] = true
		}
		matched, err := f.matchKeys(ctx, path, keys)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.WithField("path", path).Debugf("Skipping file: %v", err)
			return nil
		}
		for _, key := range matched {
			root, name := filepath.Split(path)
			root = filepath.Clean(root)
			result.files[key] = append(result.files[key], &parser.LogFile{
				Root:       root,
				Filename:   name,
				Key:        key,
				SampleName: f.cleaner.Clean(name, root),
			})
		}
		return nil
	}

	for _, p := range expanded {
		info, err := os.Stat(p)
		if err != nil {
			logger.WithField("path", p).Warnf("Analysis path not found: %v", err)
			continue
		}
		if !info.IsDir() {
			if err := visit(p); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.WithField("path", path).Debugf("Skipping unreadable path: %v", walkErr)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != p && f.ignoredDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	for key, files := range result.files {
		logger.WithFields(map[string]interface{}{"key": key, "files": len(files)}).Debug("Search key matched files")
	}

	return result, nil
}

// Match reports which of the known search keys path satisfies.
func (f *Finder) Match(ctx context.Context, path string) ([]string, error) {
	return f.matchKeys(ctx, path, f.Keys())
}

func (f *Finder) ignoredDir(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range f.ignoreDirs {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(path)); ok {
			return true
		}
	}
	return false
}

func (f *Finder) ignoredFile(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range f.ignoreFiles {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(path)); ok {
			return true
		}
	}
	return false
}

func (f *Finder) matchKeys(ctx context.Context, path string, keys []string) ([]string, error) {
	if f.ignoredFile(path) {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if f.maxSize > 0 && uint64(info.Size()) > f.maxSize {
		return nil, fmt.Errorf("%w: %s > %s", ErrFileTooLarge,
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(f.maxSize))
	}

	c := &contents{path: path}
	name := filepath.Base(path)

	var matched []string
	for _, key := range keys {
		for i := range f.patterns[key] {
			ok, err := matchPattern(ctx, &f.patterns[key][i], name, c)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = append(matched, key)
				break
			}
		}
	}
	return matched, nil
}

func matchPattern(ctx context.Context, p *config.SearchPattern, name string, c *contents) (bool, error) {
	if p.Fn != "" {
		ok, err := doublestar.Match(p.Fn, name)
		if err != nil || !ok {
			return false, err
		}
	}
	if re := p.CompiledFnRe(); re != nil && !re.MatchString(name) {
		return false, nil
	}
	if p.Contents == "" && p.CompiledContentsRe() == nil {
		return true, nil
	}

	lines, err := c.lines(ctx, p.NumLines)
	if err != nil {
		return false, err
	}
	if p.Contents != "" && !containsLine(lines, p.Contents) {
		return false, nil
	}
	if re := p.CompiledContentsRe(); re != nil && !matchesLine(lines, re) {
		return false, nil
	}
	return true, nil
}

func containsLine(lines []string, s string) bool {
	for _, l := range lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func matchesLine(lines []string, re *regexp.Regexp) bool {
	for _, l := range lines {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

// contents lazily reads the head of a file once and serves every
// pattern's line window from that read.
type contents struct {
	path     string
	loaded   []string
	complete bool
	err      error
}

func (c *contents) lines(ctx context.Context, n int) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.complete || (n > 0 && len(c.loaded) >= n) {
		return head(c.loaded, n), nil
	}

	source := parser.NewFileSource([]string{c.path})
	defer source.Close()

	c.loaded = c.loaded[:0]
	for n <= 0 || len(c.loaded) < n {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			c.complete = true
			break
		}
		if err != nil {
			c.err = err
			return nil, err
		}
		c.loaded = append(c.loaded, line.Content)
	}
	return head(c.loaded, n), nil
}

func head(lines []string, n int) []string {
	if n > 0 && len(lines) > n {
		return lines[:n]
	}
	return lines
}
