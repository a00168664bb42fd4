package report

import (
	"sort"
	"time"
)

// ModuleReport is everything one module contributed to a run.
type ModuleReport struct {
	ModuleInfo

	// Samples is the number of samples the module reported.
	Samples int `json:"samples"`

	// SampleNames are the sorted names behind Samples.
	SampleNames []string `json:"sample_names,omitempty"`

	Sections         []Section           `json:"sections,omitempty"`
	DataSources      []DataSource        `json:"data_sources,omitempty"`
	SoftwareVersions map[string][]string `json:"software_versions,omitempty"`

	// Warnings are notes shown alongside the module output.
	Warnings []string `json:"warnings,omitempty"`

	// DataFiles are the data file paths written for this module.
	DataFiles []string `json:"data_files,omitempty"`
}

// NewModuleReport creates an empty ModuleReport for info.
func NewModuleReport(info ModuleInfo) *ModuleReport {
	return &ModuleReport{
		ModuleInfo:       info,
		SoftwareVersions: make(map[string][]string),
	}
}

// AddSoftwareVersion records version for program (defaulting to the module
// name). An empty version only marks the program as present. Versions are
// kept sorted and unique.
func (m *ModuleReport) AddSoftwareVersion(program, version string) {
	if program == "" {
		program = m.Name
	}
	versions := m.SoftwareVersions[program]
	if version == "" {
		if versions == nil {
			m.SoftwareVersions[program] = []string{}
		}
		return
	}
	for _, v := range versions {
		if v == version {
			return
		}
	}
	versions = append(versions, version)
	sort.Strings(versions)
	m.SoftwareVersions[program] = versions
}

// Report is the complete output of a run.
type Report struct {
	Modules      []*ModuleReport `json:"modules"`
	GeneralStats *GeneralStats   `json:"general_stats"`

	// Skipped lists module anchors that found no samples.
	Skipped []string `json:"skipped,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the run.
type Metadata struct {
	ConfigFile    string        `json:"config_file,omitempty"`
	AnalysisPaths []string      `json:"analysis_paths"`
	FilesMatched  int           `json:"files_matched"`
	DataDir       string        `json:"data_dir,omitempty"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Duration      time.Duration `json:"duration"`
}

// New creates an empty Report.
func New() *Report {
	return &Report{GeneralStats: &GeneralStats{}}
}

// HasSamples reports whether any module produced samples.
func (r *Report) HasSamples() bool {
	for _, m := range r.Modules {
		if m.Samples > 0 {
			return true
		}
	}
	return false
}

// TotalSamples returns the number of distinct sample names across the
// modules and the general statistics table.
func (r *Report) TotalSamples() int {
	seen := make(map[string]bool)
	for _, s := range r.GeneralStats.Samples() {
		seen[s] = true
	}
	for _, m := range r.Modules {
		for _, s := range m.SampleNames {
			seen[s] = true
		}
	}
	return len(seen)
}

// Module returns the report of the module with the given anchor.
func (r *Report) Module(anchor string) *ModuleReport {
	for _, m := range r.Modules {
		if m.Anchor == anchor {
			return m
		}
	}
	return nil
}
