package afterqc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
)

const newFormat = `{
  "allow_mismatch_in_poly": 2,
  "summary": {
    "good_reads": 900,
    "bad_reads_with_low_quality": 60,
    "bad_reads_with_too_many_N": 40,
    "total_reads": 1000,
    "good_bases": 135000,
    "total_bases": 150000,
    "readlen": 150,
    "mode": "paired"
  }
}`

const oldFormat = `{
  "allow_mismatch_in_poly": 2,
  "afterqc_main_summary": {"good_reads": "50", "total_reads": "80"}
}`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"QC/sampleA.fq.json":   newFormat,
		"QC/sampleB.fq.json":   oldFormat,
		"QC/broken.fq.json":    `{"allow_mismatch_in_poly": 2, `,
		"QC/nosummary.fq.json": `{"allow_mismatch_in_poly": 2}`,
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_afterqc")
	require.Equal(t, []string{"sampleA", "sampleB"}, data.Samples())
	assert.Equal(t, 900.0, data["sampleA"]["good_reads"])
	assert.Equal(t, "paired", data["sampleA"]["mode"])
	assert.InDelta(t, 90.0, data["sampleA"]["pct_good_bases"], 1e-9)
	assert.Equal(t, 50.0, data["sampleB"]["good_reads"])
	assert.NotContains(t, data["sampleB"], "pct_good_bases")

	s := res.Section("after_qc")
	require.NotNil(t, s)
	assert.Equal(t, 40.0, s.BarGraph.Datasets[0].Data["sampleA"]["bad_reads_with_too_many_N"])
	assert.Len(t, res.Base.GeneralStats().Columns(), 4)
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"broken.json": `{"allow_mismatch_in_poly": `,
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
