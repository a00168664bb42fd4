package modules

import (
	"context"

	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

// ScanFile applies ex to every line of f and returns the collected metrics.
// Lines that match nothing are skipped.
func ScanFile(ctx context.Context, f *parser.LogFile, ex *parser.Extractor) (report.Metrics, error) {
	metrics := make(report.Metrics)
	err := parser.EachLine(ctx, f, func(line *parser.LogLine) error {
		ex.Apply(line.Content, metrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
