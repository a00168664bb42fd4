package theta2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const results = "#NLL\tmu\tC\tp*\n" +
	"2541.3\t0.25,0.5,0.25\t2:1:3\t0.1,0.2\n" +
	"2600.1\t0.9,0.1\t2:2\t0.3\n"

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"tumourA.BEST.results": results,
		"broken.BEST.results":  "#NLL\tmu\n1.0\tabc\n",
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_theta2")
	require.Equal(t, []string{"tumourA"}, data.Samples())
	assert.Equal(t, report.Metrics{
		"proportion_germline": 25.0,
		"proportion_tumour_1": 50.0,
		"proportion_tumour_2": 25.0,
	}, data["tumourA"])

	s := res.Section("theta2-purities")
	require.NotNil(t, s)
	assert.Equal(t, "theta2_purity_plot", s.BarGraph.ID)
}

func TestParsePurities_Subclones(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		last    float64
		gt5     float64
		wantGT5 bool
	}{
		{
			name:    "seven subclones",
			row:     "1\t0.1,0.1,0.1,0.1,0.1,0.1,0.25,0.25\t",
			last:    10.0,
			gt5:     50.0,
			wantGT5: true,
		},
		{
			name: "exactly five subclones",
			row:  "1\t0.25,0.15,0.15,0.15,0.15,0.15\t",
			last: 15.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parsePurities(tt.row)
			require.NoError(t, err)

			assert.InDelta(t, tt.last, m["proportion_tumour_5"], 1e-9)
			assert.NotContains(t, m, "proportion_tumour_6")
			if tt.wantGT5 {
				assert.InDelta(t, tt.gt5, m["proportion_tumour_gt5"], 1e-9)
			} else {
				assert.NotContains(t, m, "proportion_tumour_gt5")
			}
		})
	}
}

func TestParsePurities_Invalid(t *testing.T) {
	_, err := parsePurities("no tabs here")
	assert.Error(t, err)
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{"x.BEST.results": "#NLL\tmu\n"}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
