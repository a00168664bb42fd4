package bclconvert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/modulestest"
)

func runInfoXMLFor(id string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<RunInfo Version="5">
  <Run Id="%s" Number="1">
    <Reads>
      <Read Number="1" NumCycles="151" IsIndexedRead="N"/>
      <Read Number="2" NumCycles="10" IsIndexedRead="Y"/>
      <Read Number="3" NumCycles="151" IsIndexedRead="N"/>
    </Reads>
  </Run>
</RunInfo>
`, id)
}

const demuxHeader = "Lane,SampleID,Sample_Project,Index,# Reads,# Perfect Index Reads,# One Mismatch Index Reads\n"

const demux = demuxHeader +
	"1,S1,P1,AAAA-CCCC,1000,900,100\n" +
	"1,S2,P1,GGGG-TTTT,600,600,0\n" +
	"1,Undetermined,,,400,0,0\n" +
	"2,S1,P1,AAAA-CCCC,500,450,50\n" +
	"2,Undetermined,,,100,0,0\n"

const qualityMetrics = "Lane,SampleID,index,index2,ReadNumber,Yield,YieldQ30,QualityScoreSum\n" +
	"1,S1,AAAA,CCCC,1,150000,120000,5000000\n" +
	"1,S1,AAAA,CCCC,2,150000,100000,4000000\n" +
	"1,S2,GGGG,TTTT,1,90000,80000,3000000\n" +
	"1,Undetermined,,,1,60000,10000,100000\n" +
	"2,S1,AAAA,CCCC,1,75000,60000,2500000\n" +
	"3,S1,AAAA,CCCC,1,1,1,1\n"

const unknownBarcodes = "Lane,index,index2,# Reads,% of Unknown Barcodes,% of All Reads\n" +
	"1,ACGT,TTTT,300,0.75,0.15\n" +
	"1,GGGG,AAAA,100,0.25,0.05\n" +
	"2,ACGT,TTTT,80,0.8,0.13\n"

func singleRun() map[string]string {
	return map[string]string{
		"run1/RunInfo.xml":              runInfoXMLFor("RUN1"),
		"run1/Demultiplex_Stats.csv":    demux,
		"run1/Quality_Metrics.csv":      qualityMetrics,
		"run1/Top_Unknown_Barcodes.csv": unknownBarcodes,
	}
}

func TestRun_SingleRun(t *testing.T) {
	res := modulestest.Run(t, New(), singleRun(), nil)
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Report().Samples)

	lanes := res.Data("qclog_bclconvert_bylane")
	require.Equal(t, []string{"RUN1 - L1", "RUN1 - L2"}, lanes.Samples())
	l1 := lanes["RUN1 - L1"]
	assert.Equal(t, int64(1600), l1["clusters"])
	assert.Equal(t, int64(390000), l1["yield"])
	assert.Equal(t, int64(300000), l1["basesQ30"])
	assert.Equal(t, int64(1500), l1["perfect_index_reads"])
	assert.InDelta(t, 12000000.0/390000.0, l1["mean_quality"], 1e-9)
	assert.InDelta(t, 93.75, l1["percent_perfectIndex"], 1e-9)
	assert.NotContains(t, l1, "depth", "no genome size configured")

	samples := res.Data("qclog_bclconvert_bysample")
	require.Equal(t, []string{"S1", "S2"}, samples.Samples())
	s1 := samples["S1"]
	assert.Equal(t, int64(1500), s1["clusters"])
	assert.Equal(t, int64(375000), s1["yield"])
	assert.Equal(t, int64(280000), s1["basesQ30"])
	assert.Equal(t, "AAAA-CCCC", s1["index"])
	assert.Equal(t, "P1", s1["sample_project"])
	assert.InDelta(t, 90.0, s1["perfect_percent"], 1e-9)
	assert.InDelta(t, 1500.0/2100.0*100, s1["percent_reads"], 1e-9)
	assert.InDelta(t, 375000.0/(2100.0*302)*100, s1["percent_yield"], 1e-9)
	assert.InDelta(t, 100.0, samples["S2"]["perfect_percent"], 1e-9)

	byLane := res.Section("bclconvert_lane_counts")
	require.NotNil(t, byLane)
	assert.Equal(t, map[string]float64{"perfect": 1500, "imperfect": 100, "undetermined": 400},
		byLane.BarGraph.Datasets[0].Data["RUN1 - L1"])
	assert.Equal(t, 100.0, byLane.BarGraph.Datasets[0].Data["RUN1 - L2"]["undetermined"])

	bySample := res.Section("bclconvert_sample_counts")
	require.NotNil(t, bySample)
	require.Len(t, bySample.BarGraph.Datasets, 2)
	assert.Equal(t, map[string]float64{"RUN1 - L1": 1000, "RUN1 - L2": 500},
		bySample.BarGraph.Datasets[1].Data["S1"])

	undetermined := res.Section("bclconvert_undetermined")
	require.NotNil(t, undetermined)
	assert.Equal(t, map[string]float64{"RUN1 - L1": 300, "RUN1 - L2": 80},
		undetermined.BarGraph.Datasets[0].Data["ACGT-TTTT"])
	assert.Equal(t, map[string]float64{"RUN1 - L1": 100},
		undetermined.BarGraph.Datasets[0].Data["GGGG-AAAA"])

	tbl := res.Section("bclconvert-lane-stats-table")
	require.NotNil(t, tbl)
	assert.Equal(t, "Run ID - Lane", tbl.Table.FirstColumn)
	assert.Equal(t, "clusters", tbl.Table.Columns[0].Key)

	assert.Empty(t, res.Report().Warnings)
}

func TestRun_GenomeSize(t *testing.T) {
	res := modulestest.Run(t, New(), singleRun(), func(c *config.Config) {
		c.BCLConvert.GenomeSize = "1000"
	})
	require.NoError(t, res.Err)

	assert.InDelta(t, 280.0, res.Data("qclog_bclconvert_bysample")["S1"]["depth"], 1e-9)
	assert.InDelta(t, 300.0, res.Data("qclog_bclconvert_bylane")["RUN1 - L1"]["depth"], 1e-9)

	tbl := res.Section("bclconvert-sample-stats-table")
	require.NotNil(t, tbl)
	assert.Equal(t, "depth", tbl.Table.Columns[0].Key)
	assert.Contains(t, tbl.Table.Columns[0].Header.Description, "genome size is 1000")
}

func TestRun_SplitDemultiplexing(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"a/RunInfo.xml":           runInfoXMLFor("RUN1"),
		"a/Demultiplex_Stats.csv": demuxHeader + "1,S1,P1,AAAA-CCCC,1000,900,100\n1,Undetermined,,,1000,0,0\n",
		"b/RunInfo.xml":           runInfoXMLFor("RUN1"),
		"b/Demultiplex_Stats.csv": demuxHeader + "1,S2,P1,GGGG-TTTT,600,600,0\n1,Undetermined,,,1400,0,0\n",
	}, nil)
	require.NoError(t, res.Err)

	require.Len(t, res.Report().Warnings, 1)
	assert.Contains(t, res.Report().Warnings[0], "undetermined stats were recalculated")

	byLane := res.Section("bclconvert_lane_counts")
	require.NotNil(t, byLane)
	assert.Equal(t, 400.0, byLane.BarGraph.Datasets[0].Data["RUN1 - L1"]["undetermined"])
	assert.Nil(t, res.Section("undetermine_by_lane"), "barcode plots need a single run or the config option")
}

func TestRun_MultipleSequencingRuns(t *testing.T) {
	res := modulestest.Run(t, New(), map[string]string{
		"a/RunInfo.xml":           runInfoXMLFor("RUN_A"),
		"a/Demultiplex_Stats.csv": demuxHeader + "1,S1,P1,AAAA-CCCC,1000,900,100\n1,Undetermined,,,10,0,0\n",
		"b/RunInfo.xml":           runInfoXMLFor("RUN_B"),
		"b/Demultiplex_Stats.csv": demuxHeader + "1,S1,P1,AAAA-CCCC,500,500,0\n1,Undetermined,,,20,0,0\n",
	}, func(c *config.Config) {
		c.BCLConvert.CreateUndeterminedBarcodeBarplots = true
	})
	require.NoError(t, res.Err)

	require.Len(t, res.Report().Warnings, 1)
	assert.Contains(t, res.Report().Warnings[0], "multiple sequencer runs")

	lanes := res.Data("qclog_bclconvert_bylane")
	assert.Equal(t, []string{"RUN_A - L1", "RUN_B - L1"}, lanes.Samples())
	assert.Equal(t, int64(1500), res.Data("qclog_bclconvert_bysample")["S1"]["clusters"])

	byLane := res.Section("bclconvert_lane_counts")
	require.NotNil(t, byLane)
	for key, bar := range byLane.BarGraph.Datasets[0].Data {
		assert.NotContains(t, bar, "undetermined", key)
	}

	s := res.Section("undetermine_by_lane")
	require.NotNil(t, s)
	assert.Nil(t, s.BarGraph)
	assert.Equal(t, "No undetermined barcodes found", s.Content)
}

func TestRun_IgnoreSamples(t *testing.T) {
	res := modulestest.Run(t, New(), singleRun(), func(c *config.Config) {
		c.IgnoreSamples = []string{"S2"}
	})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"S1"}, res.Data("qclog_bclconvert_bysample").Samples())

	bySample := res.Section("bclconvert_sample_counts")
	require.NotNil(t, bySample)
	assert.NotContains(t, bySample.BarGraph.Datasets[1].Data, "S2")
}

func TestRun_NoSamples(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"demux without RunInfo", map[string]string{"run1/Demultiplex_Stats.csv": demux}},
		{"RunInfo without demux", map[string]string{"run1/RunInfo.xml": runInfoXMLFor("RUN1")}},
		{"RunInfo without reads", map[string]string{
			"run1/RunInfo.xml":           `<RunInfo><Run Id="RUN1"><Reads/></Run></RunInfo>`,
			"run1/Demultiplex_Stats.csv": demux,
		}},
		{"bad read count", map[string]string{
			"run1/RunInfo.xml":           runInfoXMLFor("RUN1"),
			"run1/Demultiplex_Stats.csv": demuxHeader + "1,S1,P1,AAAA,lots,1,1\n",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := modulestest.Run(t, New(), tt.files, nil)
			assert.ErrorIs(t, res.Err, modules.ErrNoSamplesFound)
		})
	}
}
