package parser

import (
	"path/filepath"
	"strings"

	"github.com/ccollicutt/qclog/pkg/config"
)

// Cleaner turns filenames (or names found inside logs) into sample names.
type Cleaner struct {
	rules       []config.CleanRule
	trim        []string
	prependDirs bool
}

// NewCleaner creates a Cleaner from a validated configuration.
func NewCleaner(cfg *config.Config) *Cleaner {
	return &Cleaner{
		rules:       cfg.FnCleanExts,
		trim:        cfg.FnCleanTrim,
		prependDirs: cfg.PrependDirs,
	}
}

// Clean applies the cleaning rules in order, then strips each trim string
// once from the end and once from the start. root is only used when
// directory prepending is enabled. If cleaning empties the name, the
// original name is returned.
func (c *Cleaner) Clean(name, root string) string {
	original := name

	if c.prependDirs && root != "" && root != "." {
		dirs := strings.Split(filepath.ToSlash(filepath.Clean(root)), "/")
		var kept []string
		for _, d := range dirs {
			if d != "" && d != "." {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			name = strings.Join(kept, " | ") + " | " + name
		}
	}

	for i := range c.rules {
		r := &c.rules[i]
		switch r.Type {
		case config.CleanRemove:
			name = strings.ReplaceAll(name, r.Pattern, "")
		case config.CleanRegex:
			if re := r.Compiled(); re != nil {
				name = re.ReplaceAllString(name, "")
			}
		case config.CleanRegexKeep:
			if re := r.Compiled(); re != nil {
				if m := re.FindString(name); m != "" {
					name = m
				}
			}
		default:
			if idx := strings.Index(name, r.Pattern); idx >= 0 {
				name = name[:idx]
			}
		}
	}

	for _, chars := range c.trim {
		name = strings.TrimSuffix(name, chars)
		name = strings.TrimPrefix(name, chars)
	}

	if name == "" {
		return original
	}
	return name
}
