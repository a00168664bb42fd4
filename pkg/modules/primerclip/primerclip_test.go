package primerclip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const runstats = `primerclip run statistics
Total alignments processed:    1000
Total mapped alignments:       950
Alignments trimmed by >= 1 base:   900
Alignments trimmed to zero aligned length:  12.0
% Alignments trimmed by >= 1 base:   94.74
% Alignments mapped after trimming:  98.7
`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"s1_primerclip_runstats.log": runstats,
		"s2_primerclip_runstats.log": "Total alignments processed:    20\n",
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_primerclip")
	require.Equal(t, []string{"s1", "s2"}, data.Samples())
	assert.Equal(t, report.Metrics{
		"total_alignments":            1000.0,
		"total_mapped_alignments":     950.0,
		"trimmed_by_ge_one_base":      900.0,
		"trimmed_to_zero":             12.0,
		"perc_trimmed_by_ge_one_base": 94.74,
		"perc_mapped_after_trimming":  98.7,
	}, data["s1"])
	assert.Equal(t, report.Metrics{"total_alignments": 20.0}, data["s2"])

	assert.Equal(t, 2, res.Report().Samples)
	cols := res.Base.GeneralStats().Columns()
	require.Len(t, cols, 4)
	assert.Equal(t, "primerclip-total_alignments", cols[0].ID)
}

func TestRun_PercentLineIsNotCount(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"s1_primerclip_runstats.txt": "% Alignments trimmed by >= 1 base:   94.74\n",
	}, nil)
	require.NoError(t, res.Err)

	m := res.Data("qclog_primerclip")["s1"]
	assert.NotContains(t, m, "trimmed_by_ge_one_base")
	assert.Equal(t, 94.74, m["perc_trimmed_by_ge_one_base"])
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"s1_primerclip_runstats.log": "nothing useful here\n",
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
	assert.Empty(t, res.Report().Sections)
}

func TestRun_IgnoredSample(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"s1_primerclip_runstats.log": runstats,
	}, func(c *config.Config) {
		c.IgnoreSamples = []string{"s1"}
	})
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
