package leehom

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
	"github.com/ccollicutt/qclog/pkg/report"
)

const summary = `Total reads :                   1000000
Merged (trimming)                 200000   20.000%
Merged (overlap)                  300000   30.000%
Kept PE/SR                        450000   45.000%
Trimmed SR                         10000    1.000%
Adapter dimers/chimeras            30000    3.000%
Failed Key                         10000    1.000%
`

func TestRun(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{"libA.log": summary}, nil)
	require.NoError(t, res.Err)

	assert.Equal(t, report.SampleData{"libA": {
		"total":                   int64(1000000),
		"merged_trimming":         int64(200000),
		"merged_overlap":          int64(300000),
		"kept":                    int64(450000),
		"trimmed":                 int64(10000),
		"adapter_dimers_chimeras": int64(30000),
		"failed_key":              int64(10000),
	}}, res.Data("qclog_leehom"))

	cols := res.Base.GeneralStats().Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "M Merged (Trimming)", cols[0].Header.Title)
	v, ok := res.Base.GeneralStats().Value("libA", cols[1])
	require.True(t, ok)
	assert.InDelta(t, 0.3, v, 1e-9)
}

func TestRun_DuplicateSampleOverwrites(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"a/libA.log": summary,
		"b/libA.log": "Adapter dimers/chimeras            7\n",
	}, nil)
	require.NoError(t, res.Err)

	data := res.Data("qclog_leehom")
	require.Len(t, data, 1)
	assert.Equal(t, report.Metrics{"adapter_dimers_chimeras": int64(7)}, data["libA"])
	require.Len(t, res.Report().DataSources, 1)
	assert.Equal(t, "b", filepath.Base(filepath.Dir(res.Report().DataSources[0].Path)))
}

func TestRun_NoSamples(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{"libA.log": "Adapter dimers/chimeras unknown\n"}, nil)
	assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
}
