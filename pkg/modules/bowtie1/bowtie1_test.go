package bowtie1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const run = `# reads processed: 10000
# reads with at least one reported alignment: 8000 (80.00%)
# reads that failed to align: 1500 (15.00%)
# reads with alignments suppressed due to -m: 500 (5.00%)
Reported 8000 alignments to 1 output stream(s)
`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{"sampleA.log": run}, nil)
	require.NoError(t, res.Err)

	assert.Equal(t, report.Metrics{
		"reads_processed":          10000.0,
		"reads_aligned":            8000.0,
		"reads_aligned_percentage": 80.0,
		"not_aligned":              1500.0,
		"not_aligned_percentage":   15.0,
		"multimapped":              500.0,
		"multimapped_percentage":   5.0,
	}, res.Data("qclog_bowtie1")["sampleA"])

	cols := res.Base.GeneralStats().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "M Aligned", cols[1].Header.Title)
	assert.Equal(t, "read_count", cols[1].Header.SharedKey)
	v, ok := res.Base.GeneralStats().Value("sampleA", cols[1])
	require.True(t, ok)
	assert.InDelta(t, 0.008, v, 1e-9)

	s := res.Section("bowtie1_alignment")
	require.NotNil(t, s)
	assert.Equal(t, 500.0, s.BarGraph.Datasets[0].Data["sampleA"]["multimapped"])
}

func TestRun_MultipleRunsInOneFile(t *testing.T) {
	log := "bowtie -p 4 genome first_R1.fastq.gz\n" + run + "Overall time: 00:00:10\n" +
		"bowtie -p 4 genome second.fq.gz\n" + run + "Overall time: 00:00:12\n"
	res := modulestest.Run(t, New(), map[string]string{"pipeline.log": log}, nil)
	require.NoError(t, res.Err)

	assert.Equal(t, []string{"first_R1", "second"}, res.Data("qclog_bowtie1").Samples())
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{"x.log": "# reads processed: many\n"}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
