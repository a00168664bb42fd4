package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the value type a Pattern stores.
type Kind int

const (
	// Float stores captures as float64.
	Float Kind = iota
	// Int stores captures as int64.
	Int
	// String stores captures verbatim.
	String
)

// Pattern extracts one metric (or one metric per suffix) from a line.
type Pattern struct {
	// Key is the metric name. With Suffixes, each capture group i is
	// stored under Key+Suffixes[i].
	Key string

	// Expr must have one capture group per stored value.
	Expr *regexp.Regexp

	Kind     Kind
	Suffixes []string
}

// NewPattern compiles expr into a Pattern. It panics on an invalid
// expression, so it is meant for package-level pattern tables.
func NewPattern(key, expr string, kind Kind, suffixes ...string) Pattern {
	return Pattern{
		Key:      key,
		Expr:     regexp.MustCompile(expr),
		Kind:     kind,
		Suffixes: suffixes,
	}
}

// Extractor applies an ordered set of patterns to log lines.
type Extractor struct {
	patterns []Pattern
}

// NewExtractor creates an Extractor over patterns.
func NewExtractor(patterns ...Pattern) *Extractor {
	return &Extractor{patterns: patterns}
}

// Patterns returns the extractor's patterns in order.
func (e *Extractor) Patterns() []Pattern {
	return e.patterns
}

// Apply runs every pattern against line and stores converted captures in
// metrics. A later match for the same key overwrites the earlier value.
// Captures that fail numeric conversion are skipped. It returns the number
// of values written.
func (e *Extractor) Apply(line string, metrics map[string]any) int {
	written := 0
	for _, p := range e.patterns {
		m := p.Expr.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if len(p.Suffixes) == 0 {
			if len(m) < 2 {
				continue
			}
			if v, ok := Convert(m[1], p.Kind); ok {
				metrics[p.Key] = v
				written++
			}
			continue
		}
		for i, suffix := range p.Suffixes {
			if i+1 >= len(m) {
				break
			}
			if v, ok := Convert(m[i+1], p.Kind); ok {
				metrics[p.Key+suffix] = v
				written++
			}
		}
	}
	return written
}

// Convert turns a captured string into a value of the given kind.
// Thousands separators (",") are removed before numeric conversion.
func Convert(s string, kind Kind) (any, bool) {
	if kind == String {
		return s, true
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	switch kind {
	case Int:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
}

// ToFloat returns v as a float64 for the numeric types stored by Extractor
// and decoded from JSON.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
