package coveragemetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    report.Metrics
	}{
		{
			name:    "both metrics",
			content: "sample\tS1\non_target_percent\t81.25\ncoverage_uniformity\t92\n",
			want:    report.Metrics{"on_target_percent": 81.25, "coverage_uniformity": 92.0},
		},
		{
			name:    "uniformity only",
			content: "coverage_uniformity 99.5\n",
			want:    report.Metrics{"coverage_uniformity": 99.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := modulestest.Run(t, New(), map[string]string{
				"S1_amplicon_coverage_metrics.txt": tt.content,
			}, nil)
			require.NoError(t, res.Err)
			assert.Equal(t, report.SampleData{"S1": tt.want}, res.Data("qclog_coverage_metrics"))
		})
	}
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"S1_amplicon_coverage_metrics.txt": "coverage_uniformity n/a\n",
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
