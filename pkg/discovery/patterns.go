package discovery

import (
	"github.com/ccollicutt/qclog/pkg/config"
)

// defaultPatterns are the built-in search patterns keyed by search key.
// A file belongs to a key when any of the key's patterns matches.
var defaultPatterns = map[string][]config.SearchPattern{
	"afterqc": {{Fn: "*.json", Contents: "allow_mismatch_in_poly", NumLines: 2000}},
	"bclconvert/demux": {{
		Fn:       "Demultiplex_Stats.csv",
		Contents: "SampleID",
		NumLines: 1,
	}},
	"bclconvert/quality_metrics": {{
		Fn:       "Quality_Metrics.csv",
		Contents: "QualityScoreSum",
		NumLines: 1,
	}},
	"bclconvert/runinfo":          {{Fn: "RunInfo.xml"}},
	"bclconvert/unknown_barcodes": {{Fn: "Top_Unknown_Barcodes.csv"}},
	"bowtie1":                     {{Contents: "# reads processed:", NumLines: 2000}},
	"busco":                       {{Fn: "short_summary*", Contents: "BUSCO version is:", NumLines: 5}},
	"coverage_metrics":            {{Contents: "coverage_uniformity", NumLines: 100}},
	"diamond":                     {{Fn: "diamond.log*"}},
	"eigenstratdatabasetools":     {{Fn: "*_eigenstrat_coverage.json"}},
	"filtlong":                    {{Contents: "Scoring long reads", NumLines: 20}},
	"gopeaks":                     {{Fn: "*_gopeaks.json"}},
	"hisat2":                      {{Contents: "HISAT2 summary stats:", NumLines: 2000}},
	"hops":                        {{Fn: "heatmap_overview_Wevid.json"}},
	"jax_trimmer":                 {{Contents: "Percentage of HQ reads", NumLines: 100}},
	"leehom":                      {{Contents: "Adapter dimers/chimeras", NumLines: 100}},
	"librarian":                   {{Fn: "librarian_heatmap.txt"}},
	"optitype":                    {{Fn: "*_result.tsv", Contents: "\tA1\tA2\tB1\tB2\tC1\tC2", NumLines: 1}},
	"primerclip":                  {{Fn: "*_primerclip_runstats*"}},
	"theta2":                      {{Fn: "*.BEST.results"}},
}

// DefaultPatterns returns a copy of the built-in search patterns.
func DefaultPatterns() map[string][]config.SearchPattern {
	out := make(map[string][]config.SearchPattern, len(defaultPatterns))
	for key, patterns := range defaultPatterns {
		out[key] = append([]config.SearchPattern(nil), patterns...)
	}
	return out
}
