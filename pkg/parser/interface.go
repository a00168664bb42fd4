package parser

import (
	"context"
)

// LineSource yields the lines of one or more log files in order.
// A source is read by one goroutine at a time.
type LineSource interface {
	// Next returns the next line, or io.EOF once the source is drained.
	Next(ctx context.Context) (*LogLine, error)

	Close() error
}
