package jaxtrimmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const pairedSummary = `Metric	Read 1	Read 2
Percentage of HQ reads	95.50%	94.25%
Total number of reads	1000	1000
Total number of HQ filtered reads	955	942
Reads passing filter	950	940
Percent reads passing filter	95.00%	94.00%
Max Trimmed Length	150	150
Min Trimmed Length	40	38
Mean Trimmed Length	142.5	141.2
`

const singleSummary = `Metric	Read 1
Percentage of HQ reads	90.00%
Total number of reads	500
Total number of HQ filtered reads	450
Reads passing filter	440
Percent reads passing filter	88.00%
Max Trimmed Length	100
Min Trimmed Length	30
Mean Trimmed Length	95.5
`

func TestRun_Paired(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"PDX1_R1_stat.txt": pairedSummary,
	}, nil)
	require.NoError(t, res.Err)

	m := res.Data("qclog_jax_trimmer")["PDX1_R1"]
	require.NotNil(t, m)
	assert.Equal(t, 95.5, m["perc_hq_1"])
	assert.Equal(t, 94.25, m["perc_hq_2"])
	assert.Equal(t, 1000.0, m["total_reads_2"])
	assert.Equal(t, 950.0, m["reads_passing_1"])
	assert.Equal(t, 940.0, m["reads_passing_2"])
	assert.Equal(t, 141.2, m["mean_trim_len_2"])
	assert.Len(t, m, 16)

	assert.Len(t, res.Base.GeneralStats().Columns(), 12)
}

func TestRun_Single(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"sampleA_stat.txt": singleSummary,
	}, nil)
	require.NoError(t, res.Err)

	m := res.Data("qclog_jax_trimmer")["sampleA"]
	assert.Equal(t, report.Metrics{
		"perc_hq_1":        90.0,
		"total_reads_1":    500.0,
		"total_hq_reads_1": 450.0,
		"reads_passing_1":  440.0,
		"perc_passing_1":   88.0,
		"max_trim_len_1":   100.0,
		"min_trim_len_1":   30.0,
		"mean_trim_len_1":  95.5,
	}, m)

	for _, c := range res.Base.GeneralStats().Columns() {
		assert.NotContains(t, c.Key, "_2")
	}
	assert.Len(t, res.Base.GeneralStats().Columns(), 6)
}

func TestRun_MixedAddsR2Columns(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"a_stat.txt": pairedSummary,
		"b_stat.txt": singleSummary,
	}, nil)
	require.NoError(t, res.Err)
	assert.Len(t, res.Base.GeneralStats().Columns(), 12)
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"a_stat.txt": "Percentage of HQ reads\tunknown\n",
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}

func TestSampleName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"PDX1_R1_stat", "PDX1_R1"},
		{"sample", "sample"},
		{"a_b", "a"},
	}
	for _, tt := range tests {
		if got := sampleName(tt.in); got != tt.want {
			t.Errorf("sampleName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(true)
	require.Len(t, cols, 12)
	assert.Equal(t, "total_reads_1", cols[0].Key)
	assert.Equal(t, "Total Reads R1", cols[0].Header.Title)
	assert.Equal(t, "max_trim_len_2", cols[11].Key)
	assert.Equal(t, "Max Trim Length R2", cols[11].Header.Title)
}
