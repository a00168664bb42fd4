// Package modules defines the contract between qclog and its tool modules,
// and the host surface a module uses while it runs.
package modules

import (
	"context"
	"errors"

	"github.com/ccollicutt/qclog/pkg/report"
)

// ErrNoSamplesFound is returned by a module that parsed nothing. The host
// skips the module without failing the run.
var ErrNoSamplesFound = errors.New("no samples found")

// Module parses one tool's output.
type Module interface {
	// Info returns the module metadata.
	Info() report.ModuleInfo

	// SearchKeys returns the discovery keys the module reads.
	SearchKeys() []string

	// Run parses the files the host found for the module's keys and
	// contributes results through b. It returns ErrNoSamplesFound when no
	// sample survives parsing and filtering.
	Run(ctx context.Context, b *Base) error
}

// DataWriter persists a module's parsed data under name.
type DataWriter interface {
	// WriteData writes data and returns the written path.
	WriteData(name string, data report.SampleData) (string, error)
}
