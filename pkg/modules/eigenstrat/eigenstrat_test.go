package eigenstrat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
)

const coverage = `{
  "Metadata": {"tool_name": "eigenstrat_snp_coverage", "version": "1.1.0"},
  "ind1": {"Covered_Snps": 120345, "Total_Snps": 1233013, "Sex": "M"},
  "ind2.bam": {"Covered_Snps": "5000", "Total_Snps": 1233013}
}`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"run_eigenstrat_coverage.json":    coverage,
		"broken_eigenstrat_coverage.json": `{"ind3": `,
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_snp_cov_metrics")
	require.Equal(t, []string{"ind1", "ind2"}, data.Samples())
	assert.Equal(t, int64(120345), data["ind1"]["Covered_Snps"])
	assert.Equal(t, "M", data["ind1"]["Sex"])
	assert.Equal(t, int64(5000), data["ind2"]["Covered_Snps"])

	assert.Equal(t, []string{"1.1.0"}, res.Report().SoftwareVersions["eigenstratdatabasetools"])
	cols := res.Base.GeneralStats().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "eigenstrat-Covered_Snps", cols[0].ID)
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"x_eigenstrat_coverage.json": `{"Metadata": {"version": "1.0"}}`,
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}

func TestCoverageValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{json.Number("12"), int64(12)},
		{json.Number("12.7"), int64(12)},
		{"34", int64(34)},
		{"3.5", "3.5"},
		{"F", "F"},
		{true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coverageValue(tt.in), "coverageValue(%v)", tt.in)
	}
}
