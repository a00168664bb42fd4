package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
	DefaultDataDir        = "qclog_data"
	DefaultDataFormat     = DataFormatTSV
	DefaultMaxFileSize    = "50MB"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Environment variable names.
const (
	EnvAnalysisPaths = "QCLOG_ANALYSIS_PATHS"
	EnvDataFormat    = "QCLOG_DATA_FORMAT"
	EnvLogLevel      = "QCLOG_LOG_LEVEL"
)

// GenomeSizePresets are the named genome sizes accepted by bclconvert.genome_size.
var GenomeSizePresets = map[string]int64{
	"hg19_genome": 2897310462,
	"hg38_genome": 3049315783,
	"mm10_genome": 2652783500,
}

var defaultCleanExts = []string{
	".gz", ".fastq", ".fq", ".bam", ".sam", ".sra", ".vcf", ".dat",
	"_tophat", ".log", ".stderr", ".out", ".spp", ".fa", ".fasta",
	".png", ".jpg", ".jpeg", ".html", "Log.final", "ReadsPerGene",
	".flagstat", "_star_aligned", "_fastqc", ".hicup", ".counts",
	"_counts", ".txt", ".tsv", ".csv", ".aligned", "Aligned", ".merge",
	".deduplicated", ".dedup", ".clean", ".sorted", ".report", "| stdin",
	".geneBodyCoverage", ".inner_distance_freq", ".junctionSaturation",
	".pos.DupRate", ".GC.xls", "_slamdunk", "_bismark", ".conpair",
	".concordance", ".contamination", ".BEST.results", "_peaks.xls",
	".relatedness", ".cnt", ".aqhist", ".bhist", ".bincov", ".bqhist",
	".covhist", ".covstats", ".ehist", ".gchist", ".idhist", ".ihist",
	".indelhist", ".lhist", ".mhist", ".qahist", ".qchist", ".qhist",
	".rpkm", ".selfSM", ".extendedFrags", "_SummaryStatistics",
	".purple.purity", ".purple.qc", ".trim", ".bowtie2", ".mkD",
	".highfreq", ".lowfreq", ".json",
}

var defaultCleanTrim = []string{
	".", ":", "_", "-", ".r", "_val", ".idxstats", "_trimmed",
	".trimmed", ".csv", ".yaml", ".yml", ".json", "_mqc",
	"short_summary_", "_summary", ".summary", ".align", ".h5",
	"_matrix", ".stats", ".hist", ".phased", ".tar", "runs_",
}

var defaultIgnoreDirs = []string{
	".git", "icarus_viewers", "runs_per_sample_*", "qclog_data",
}

// DefaultCleanRules returns the built-in filename cleaning rules.
func DefaultCleanRules() []CleanRule {
	rules := make([]CleanRule, 0, len(defaultCleanExts))
	for _, ext := range defaultCleanExts {
		rules = append(rules, CleanRule{Type: CleanTruncate, Pattern: ext})
	}
	return rules
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AnalysisPaths: []string{},
		IgnoreDirs:    append([]string(nil), defaultIgnoreDirs...),
		FnCleanExts:   DefaultCleanRules(),
		FnCleanTrim:   append([]string(nil), defaultCleanTrim...),
		MaxFileSize:   DefaultMaxFileSize,
		ReadCount: CountConfig{
			Multiplier: 0.000001,
			Prefix:     "M",
			Desc:       "millions",
		},
		BaseCount: CountConfig{
			Multiplier: 0.000001,
			Prefix:     "Mb",
			Desc:       "millions",
		},
		DataDir:    DefaultDataDir,
		DataFormat: DefaultDataFormat,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if paths := os.Getenv(EnvAnalysisPaths); paths != "" {
		c.AnalysisPaths = strings.Split(paths, string(os.PathListSeparator))
	}
	if format := os.Getenv(EnvDataFormat); format != "" {
		c.DataFormat = DataFormat(format)
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}
