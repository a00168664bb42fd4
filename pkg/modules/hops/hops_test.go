package hops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const overview = `{
  "sample2.rma6": {"Yersinia_pestis": [3], "Mycobacterium_leprae": 0},
  "sample1.rma6": {"Yersinia_pestis": 1, "Mycobacterium_leprae": [2]}
}`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"hops/heatmap_overview_Wevid.json": overview,
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_hops")
	assert.Equal(t, report.SampleData{
		"sample1.rma6": {"Yersinia_pestis": 1.0, "Mycobacterium_leprae": 2.0},
		"sample2.rma6": {"Yersinia_pestis": 3.0, "Mycobacterium_leprae": 0.0},
	}, data)

	s := res.Section("hops-heatmap")
	require.NotNil(t, s)
	assert.Equal(t, "hops_heatmap", s.Anchor)
	assert.Equal(t, []string{"Mycobacterium leprae", "Yersinia pestis"}, s.Heatmap.XCats)
	assert.Equal(t, []string{"sample1.rma6", "sample2.rma6"}, s.Heatmap.YCats)
	assert.Equal(t, [][]float64{{2, 1}, {0, 3}}, s.Heatmap.Values)
	assert.NotContains(t, s.Description, "overlapping")
}

func TestRun_BrokenJSON(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"heatmap_overview_Wevid.json": `{"s1": [1, 2]}`,
	}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
	assert.Contains(t, res.Report().SoftwareVersions, "HOPS")
}

func TestNewHeatmap_MissingTaxon(t *testing.T) {
	h := NewHeatmap(report.SampleData{
		"a": {"x_1": 1.0},
		"b": {"x_2": 2.0},
	})
	assert.Equal(t, []string{"x 1", "x 2"}, h.XCats)
	assert.Equal(t, [][]float64{{1, 0}, {0, 2}}, h.Values)
}
