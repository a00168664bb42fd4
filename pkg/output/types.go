// Package output provides report formatters and the data file writer.
package output

import (
	"time"

	"github.com/ccollicutt/qclog/pkg/report"
)

// Summary provides aggregate statistics for a run.
type Summary struct {
	// ModulesWithSamples is the number of modules that reported samples.
	ModulesWithSamples int `json:"modules_with_samples"`

	// ModulesSkipped is the number of modules that found nothing.
	ModulesSkipped int `json:"modules_skipped"`

	// Samples is the number of distinct samples across all modules.
	Samples int `json:"samples"`

	// FilesMatched is the number of files handed to modules.
	FilesMatched int `json:"files_matched"`

	Duration time.Duration `json:"duration"`
}

// Summarize computes the summary of rep.
func Summarize(rep *report.Report) Summary {
	s := Summary{
		ModulesSkipped: len(rep.Skipped),
		Samples:        rep.TotalSamples(),
		FilesMatched:   rep.Metadata.FilesMatched,
		Duration:       rep.Metadata.Duration,
	}
	for _, m := range rep.Modules {
		if m.Samples > 0 {
			s.ModulesWithSamples++
		}
	}
	return s
}
