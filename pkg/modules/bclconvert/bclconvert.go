// Package bclconvert parses BCL Convert demultiplexing reports.
//
// Each output directory holds a Demultiplex_Stats.csv and the run's
// RunInfo.xml, optionally with Quality_Metrics.csv and
// Top_Unknown_Barcodes.csv. Several directories from the same sequencing run
// are merged and their undetermined read counts recalculated.
package bclconvert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/parser"
	"github.com/ccollicutt/qclog/pkg/report"
)

const (
	keyDemux          = "bclconvert/demux"
	keyRunInfo        = "bclconvert/runinfo"
	keyQualityMetrics = "bclconvert/quality_metrics"
	keyUnknown        = "bclconvert/unknown_barcodes"

	undeterminedSample = "Undetermined"

	// maxUnknownBarcodes bounds both the barcodes taken per lane and the
	// barcodes plotted.
	maxUnknownBarcodes = 20
)

var countCategories = []report.Category{
	{Key: "perfect", Name: "Perfect Index Reads"},
	{Key: "imperfect", Name: "Mismatched Index Reads"},
	{Key: "undetermined", Name: "Undetermined Reads"},
}

// Module parses BCL Convert output.
type Module struct{}

// New creates the BCL Convert module.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() report.ModuleInfo {
	return report.ModuleInfo{
		Name:   "BCL Convert",
		Anchor: "bclconvert",
		Href:   "https://support.illumina.com/sequencing/sequencing_software/bcl-convert.html",
		Info:   "Demultiplexes data and converts BCL files to FASTQ file formats for downstream analysis.",
	}
}

func (m *Module) SearchKeys() []string {
	return []string{keyDemux, keyRunInfo, keyQualityMetrics, keyUnknown}
}

// counts are summed per lane and per sample within a lane.
type counts struct {
	clusters    int64
	yield       int64
	calcYield   int64
	perfect     int64
	oneMismatch int64
	basesQ30    int64
	qualitySum  float64
	calcQuality float64
}

func (c *counts) add(o counts) {
	c.clusters += o.clusters
	c.yield += o.yield
	c.calcYield += o.calcYield
	c.perfect += o.perfect
	c.oneMismatch += o.oneMismatch
	c.basesQ30 += o.basesQ30
	c.qualitySum += o.qualitySum
	c.calcQuality += o.calcQuality
}

// effectiveYield prefers the reported yield over the one derived from read
// counts and cluster length.
func (c *counts) effectiveYield() int64 {
	if c.yield != 0 {
		return c.yield
	}
	return c.calcYield
}

func (c *counts) effectiveQualitySum() float64 {
	if c.qualitySum != 0 {
		return c.qualitySum
	}
	return c.calcQuality
}

type laneSample struct {
	counts
	index   string
	project string
}

type barcodeCount struct {
	barcode string
	reads   int64
}

type lane struct {
	counts
	clusterLength int64
	samples       map[string]*laneSample
	unknown       []barcodeCount
}

// runData maps a lane ID ("L1") to its stats.
type runData map[string]*lane

// outputDir is one BCL Convert output directory.
type outputDir struct {
	root     string
	demux    *parser.LogFile
	runInfo  *parser.LogFile
	qmetrics *parser.LogFile
	info     runInfo
}

type state struct {
	b    *modules.Base
	runs map[string]runData

	// undetermined holds reads per lane ID that were not assigned to a
	// sample. It is nil when several sequencing runs are merged.
	undetermined map[string]int64
	laneTotals   []map[string]int64
	singleDemux  bool
}

func (m *Module) Run(ctx context.Context, b *modules.Base) error {
	dirs, err := collate(ctx, b)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return modules.ErrNoSamplesFound
	}

	s := &state{
		b:            b,
		runs:         make(map[string]runData),
		undetermined: make(map[string]int64),
		singleDemux:  len(dirs) == 1,
	}

	var parsed []*outputDir
	for _, d := range dirs {
		if err := s.parseDemux(ctx, d); err != nil {
			if err := b.FileError(ctx, d.demux, err); err != nil {
				return err
			}
			continue
		}
		parsed = append(parsed, d)
	}
	if len(parsed) == 0 {
		return modules.ErrNoSamplesFound
	}
	for _, d := range parsed {
		if d.qmetrics == nil {
			continue
		}
		if err := s.parseQualityMetrics(ctx, d); err != nil {
			if err := b.FileError(ctx, d.qmetrics, err); err != nil {
				return err
			}
		}
	}

	lastRunID := parsed[len(parsed)-1].info.runID
	multipleRuns := false
	for _, d := range parsed {
		if d.info.runID != lastRunID {
			multipleRuns = true
		}
	}

	laneNote := ""
	switch {
	case multipleRuns:
		b.AddWarning("Detected multiple sequencer runs. Sample stats were merged.")
		laneNote = " Undetermined reads cannot be recalculated for multiple sequencing runs and are not shown."
		s.undetermined = nil
	case len(parsed) > 1:
		b.AddWarning("Detected multiple bclconvert runs from the same sequencer output. " +
			"Runs were merged and undetermined stats were recalculated.")
		laneNote = " Runs were merged and undetermined reads were recalculated."
		s.recalculateUndetermined(lastRunID)
	}

	barcodePlots := b.Config().BCLConvert.CreateUndeterminedBarcodeBarplots || len(parsed) == 1
	if barcodePlots {
		if err := s.parseUnknownBarcodes(ctx, lastRunID); err != nil {
			return err
		}
	}

	sp := s.split(lastRunID)
	sp.byLane = b.IgnoreSamples(sp.byLane)
	sp.bySample = b.IgnoreSamples(sp.bySample)
	for name := range sp.sampleLanes {
		if b.IsIgnoredSample(name) {
			delete(sp.sampleLanes, name)
		}
	}
	if len(sp.byLane) == 0 && len(sp.bySample) == 0 {
		return modules.ErrNoSamplesFound
	}
	b.Log().Infof("%d lanes and %d samples found", len(sp.byLane), len(sp.bySample))
	b.Finish(sp.bySample)
	b.AddSoftwareVersion("")

	if err := b.WriteDataFile(sp.byLane, "qclog_bclconvert_bylane"); err != nil {
		return err
	}
	if err := b.WriteDataFile(sp.bySample, "qclog_bclconvert_bysample"); err != nil {
		return err
	}

	genomeSize := b.Config().BCLConvert.GenomeSizeBases()
	b.AddSection(report.Section{
		Name:        "Sample Statistics",
		Anchor:      "bclconvert-samplestats",
		Description: "Statistics about each sample for each flowcell",
		Table:       sampleTable(b, sp.bySample, genomeSize),
	})
	b.AddSection(report.Section{
		Name:        "Lane Statistics",
		Anchor:      "bclconvert-lanestats",
		Description: "Statistics about each lane for each flowcell",
		Table:       laneTable(b, sp.byLane, genomeSize),
	})

	b.AddSection(report.Section{
		Name:        "Clusters by lane",
		Anchor:      "bclconvert-bylane",
		Description: "Number of reads per lane (with number of perfect index reads)." + laneNote,
		Helptext: "Perfect index reads are those that do not have a single mismatch. " +
			"All samples of a lane are combined. Undetermined reads are treated as a third category.",
		BarGraph: &report.BarGraph{
			ID:     "bclconvert_lane_counts",
			Title:  "bclconvert: Clusters by lane",
			YLabel: "Number of clusters",
			Datasets: []report.BarDataset{{
				Categories: countCategories,
				Data:       restrict(sp.laneBars, sp.byLane),
			}},
		},
	})

	laneCats := make([]report.Category, 0, len(sp.byLane))
	for _, key := range sp.byLane.Samples() {
		laneCats = append(laneCats, report.Category{Key: key, Name: key})
	}
	b.AddSection(report.Section{
		Name:        "Clusters by sample",
		Anchor:      "bclconvert-bysample",
		Description: "Number of reads per sample.",
		Helptext: "Perfect index reads are those that do not have a single mismatch. " +
			"Samples are aggregated across lanes. Undetermined reads are ignored.",
		BarGraph: &report.BarGraph{
			ID:     "bclconvert_sample_counts",
			Title:  "bclconvert: Clusters by sample",
			YLabel: "Number of clusters",
			Datasets: []report.BarDataset{
				{
					Label:      "Index mismatches",
					Categories: countCategories[:2],
					Data:       restrict(sp.sampleBars, sp.bySample),
				},
				{
					Label:      "Counts per lane",
					Categories: laneCats,
					Data:       sp.sampleLanes,
				},
			},
		},
	})

	if barcodePlots {
		section := report.Section{
			Name:        "Undetermined barcodes by lane",
			Anchor:      "undetermine_by_lane",
			Description: "Undetermined barcodes by lanes",
		}
		if g := undeterminedGraph(sp.unknown, sp.byLane); g != nil {
			section.BarGraph = g
		} else {
			section.Content = "No undetermined barcodes found"
		}
		b.AddSection(section)
	}
	return nil
}

// collate pairs each Demultiplex_Stats.csv with the RunInfo.xml (and
// optional Quality_Metrics.csv) in the same directory. Unpaired files are
// logged and skipped. Directories are returned in path order.
func collate(ctx context.Context, b *modules.Base) ([]*outputDir, error) {
	byRoot := func(key string) map[string]*parser.LogFile {
		out := make(map[string]*parser.LogFile)
		for _, f := range b.FindLogFiles(key) {
			out[f.Root] = f
		}
		return out
	}
	demuxes := byRoot(keyDemux)
	runInfos := byRoot(keyRunInfo)
	qmetrics := byRoot(keyQualityMetrics)

	for root := range runInfos {
		if _, ok := demuxes[root]; !ok {
			b.Log().Errorf("Found RunInfo.xml file in %s but no Demux Stats file, skipping", root)
		}
	}

	var dirs []*outputDir
	for _, root := range modules.SortedKeys(demuxes) {
		ri, ok := runInfos[root]
		if !ok {
			b.Log().Errorf("Found Demux Stats file in %s but no RunInfo.xml file, skipping", root)
			continue
		}
		info, err := parseRunInfo(ri)
		if err != nil {
			if err := b.FileError(ctx, ri, err); err != nil {
				return nil, err
			}
			continue
		}
		b.AddDataSource(ri, "", "bclconvert-runinfo-xml")
		dirs = append(dirs, &outputDir{
			root:     root,
			demux:    demuxes[root],
			runInfo:  ri,
			qmetrics: qmetrics[root],
			info:     info,
		})
	}
	return dirs, nil
}

func (s *state) run(id string) runData {
	r, ok := s.runs[id]
	if !ok {
		r = make(runData)
		s.runs[id] = r
	}
	return r
}

func (s *state) parseDemux(ctx context.Context, d *outputDir) error {
	rows, err := readDemux(ctx, d.demux)
	if err != nil {
		return err
	}

	run := s.run(d.info.runID)
	totals := make(map[string]int64)
	for _, r := range rows {
		l, ok := run[r.lane]
		if !ok {
			l = &lane{clusterLength: d.info.clusterLength, samples: make(map[string]*laneSample)}
			run[r.lane] = l
			s.undetermined[r.lane] = 0
		}
		s.b.AddDataSource(d.demux, r.sample, "bclconvert-runinfo-demux-csv")

		if r.sample != undeterminedSample {
			ls, ok := l.samples[r.sample]
			if !ok {
				ls = &laneSample{}
				l.samples[r.sample] = ls
			}
			calcYield := r.reads * d.info.clusterLength
			delta := counts{
				clusters:    r.reads,
				calcYield:   calcYield,
				perfect:     r.perfect,
				oneMismatch: r.oneMismatch,
				basesQ30:    r.basesQ30,
				calcQuality: r.meanQuality * float64(calcYield),
			}
			l.add(delta)
			ls.add(delta)
			ls.index = r.index
			if r.hasProject {
				ls.project = r.project
			}
		}

		totals[r.lane] += r.reads
		if s.singleDemux && r.sample == undeterminedSample {
			s.undetermined[r.lane] += r.reads
		}
	}
	s.laneTotals = append(s.laneTotals, totals)
	return nil
}

// recalculateUndetermined derives undetermined reads per lane when several
// demultiplexing runs of one sequencing run are merged: the lane's total
// reads (from any one file) minus the reads assigned to samples.
func (s *state) recalculateUndetermined(runID string) {
	total := make(map[string]int64)
	for _, laneTotals := range s.laneTotals {
		for id, reads := range laneTotals {
			if prev := total[id]; prev != 0 && prev != reads {
				s.b.Log().Errorf("Different amounts of reads per lane across input files, undetermined counts may be inaccurate")
			}
			total[id] = reads
		}
	}

	for id, l := range s.runs[runID] {
		var determined int64
		for _, ls := range l.samples {
			determined += ls.clusters
		}
		s.undetermined[id] = total[id] - determined
	}
}

func (s *state) parseQualityMetrics(ctx context.Context, d *outputDir) error {
	rows, err := readQualityMetrics(ctx, d.qmetrics)
	if err != nil {
		return err
	}

	run := s.run(d.info.runID)
	for _, r := range rows {
		l, ok := run[r.lane]
		if !ok {
			s.b.Log().Warnf("Found unrecognised lane %s in Quality Metrics file, skipping", r.lane)
			continue
		}
		s.b.AddDataSource(d.qmetrics, r.sample, "bclconvert-runinfo-quality-metrics-csv")
		if r.sample == undeterminedSample {
			continue
		}
		ls, ok := l.samples[r.sample]
		if !ok {
			s.b.Log().Warnf("Found unrecognised sample %s in Quality Metrics file, skipping", r.sample)
			continue
		}
		delta := counts{yield: r.yield, basesQ30: r.yieldQ30, qualitySum: r.qualitySum}
		l.add(delta)
		ls.add(delta)
	}
	return nil
}

// parseUnknownBarcodes attaches the top unknown barcodes to the lanes of
// runID, keeping file order.
func (s *state) parseUnknownBarcodes(ctx context.Context, runID string) error {
	run := s.runs[runID]
	for _, f := range s.b.FindLogFiles(keyUnknown) {
		rows, err := readUnknownBarcodes(ctx, f)
		if err != nil {
			if err := s.b.FileError(ctx, f, err); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			l, ok := run[r.lane]
			if !ok {
				s.b.Log().Debugf("Unknown barcode for lane %s not in run %s, skipping", r.lane, runID)
				continue
			}
			l.setUnknown(r.barcode, r.reads)
		}
	}
	return nil
}

func (l *lane) setUnknown(barcode string, reads int64) {
	for i := range l.unknown {
		if l.unknown[i].barcode == barcode {
			l.unknown[i].reads = reads
			return
		}
	}
	l.unknown = append(l.unknown, barcodeCount{barcode: barcode, reads: reads})
}

// splitData is the parsed runs regrouped for output.
type splitData struct {
	byLane      report.SampleData
	bySample    report.SampleData
	laneBars    map[string]map[string]float64
	sampleBars  map[string]map[string]float64
	sampleLanes map[string]map[string]float64
	unknown     map[string][]barcodeCount
}

func laneKey(runID, laneID string) string {
	return runID + " - " + laneID
}

type sampleTotals struct {
	counts
	clusterLength int64
	depth         float64
	index         string
	project       string
}

// split builds per-lane stats (keyed "<run id> - <lane>") and per-sample
// stats summed across lanes and runs.
func (s *state) split(lastRunID string) *splitData {
	genomeSize := float64(s.b.Config().BCLConvert.GenomeSizeBases())
	sp := &splitData{
		byLane:      make(report.SampleData),
		bySample:    make(report.SampleData),
		laneBars:    make(map[string]map[string]float64),
		sampleBars:  make(map[string]map[string]float64),
		sampleLanes: make(map[string]map[string]float64),
		unknown:     make(map[string][]barcodeCount),
	}

	var totalReads int64
	samples := make(map[string]*sampleTotals)
	for _, runID := range modules.SortedKeys(s.runs) {
		run := s.runs[runID]
		for _, laneID := range modules.SortedKeys(run) {
			l := run[laneID]
			key := laneKey(runID, laneID)
			totalReads += l.clusters

			m := report.Metrics{
				"clusters":                 l.clusters,
				"yield":                    l.effectiveYield(),
				"perfect_index_reads":      l.perfect,
				"one_mismatch_index_reads": l.oneMismatch,
				"basesQ30":                 l.basesQ30,
				"yield_q30_percent":        percent(l.basesQ30, l.effectiveYield()),
			}
			if n := l.clusters * l.clusterLength; n > 0 {
				m["percent_Q30"] = float64(l.basesQ30) / float64(n) * 100
			}
			if l.clusters > 0 {
				m["percent_perfectIndex"] = percent(l.perfect, l.clusters)
				m["percent_oneMismatch"] = percent(l.oneMismatch, l.clusters)
			}
			if genomeSize > 0 {
				m["depth"] = float64(l.basesQ30) / genomeSize
			}
			if y := l.effectiveYield(); y > 0 {
				m["mean_quality"] = l.effectiveQualitySum() / float64(y)
			}
			sp.byLane[key] = m

			bar := map[string]float64{
				"perfect":   float64(l.perfect),
				"imperfect": float64(l.clusters - l.perfect),
			}
			if s.undetermined != nil && runID == lastRunID {
				bar["undetermined"] = float64(s.undetermined[laneID])
			}
			sp.laneBars[key] = bar
			if len(l.unknown) > 0 {
				sp.unknown[key] = l.unknown
			}

			for name, ls := range l.samples {
				st, ok := samples[name]
				if !ok {
					st = &sampleTotals{}
					samples[name] = st
				}
				st.clusters += ls.clusters
				st.yield += ls.effectiveYield()
				st.perfect += ls.perfect
				st.oneMismatch += ls.oneMismatch
				st.basesQ30 += ls.basesQ30
				st.qualitySum += ls.effectiveQualitySum()
				st.clusterLength = l.clusterLength
				st.index = ls.index
				if ls.project != "" {
					st.project = ls.project
				}
				if genomeSize > 0 {
					st.depth += float64(ls.basesQ30) / genomeSize
				}

				if sp.sampleLanes[name] == nil {
					sp.sampleLanes[name] = make(map[string]float64)
				}
				sp.sampleLanes[name][key] += float64(ls.clusters)
			}
		}
	}

	for name, st := range samples {
		m := report.Metrics{
			"clusters":                 st.clusters,
			"yield":                    st.yield,
			"perfect_index_reads":      st.perfect,
			"one_mismatch_index_reads": st.oneMismatch,
			"basesQ30":                 st.basesQ30,
			"index":                    st.index,
			"perfect_percent":          percent(st.perfect, st.clusters),
			"one_mismatch_percent":     percent(st.oneMismatch, st.clusters),
			"yield_q30_percent":        percent(st.basesQ30, st.yield),
		}
		if st.project != "" {
			m["sample_project"] = st.project
		}
		if genomeSize > 0 {
			m["depth"] = st.depth
		}
		if totalReads > 0 {
			m["percent_reads"] = percent(st.clusters, totalReads)
		}
		if n := totalReads * st.clusterLength; n > 0 {
			m["percent_yield"] = percent(st.yield, n)
		}
		if st.yield > 0 {
			m["mean_quality"] = st.qualitySum / float64(st.yield)
		}
		sp.bySample[name] = m
		sp.sampleBars[name] = map[string]float64{
			"perfect":   float64(st.perfect),
			"imperfect": float64(st.clusters - st.perfect),
		}
	}
	return sp
}

// percent returns n/total as a percentage, or 0 when total is 0.
func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func restrict(bars map[string]map[string]float64, keep report.SampleData) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(keep))
	for key, v := range bars {
		if _, ok := keep[key]; ok {
			out[key] = v
		}
	}
	return out
}

// undeterminedGraph plots the top unknown barcodes (one bar per barcode,
// one series per lane). It returns nil when no lane has any.
func undeterminedGraph(unknown map[string][]barcodeCount, lanes report.SampleData) *report.BarGraph {
	data := make(map[string]map[string]float64)
	var order []string
	var cats []report.Category
	for _, key := range lanes.Samples() {
		bcs := unknown[key]
		if len(bcs) == 0 {
			continue
		}
		cats = append(cats, report.Category{Key: key, Name: key})
		if len(bcs) > maxUnknownBarcodes {
			bcs = bcs[:maxUnknownBarcodes]
		}
		for _, bc := range bcs {
			if _, ok := data[bc.barcode]; !ok {
				data[bc.barcode] = make(map[string]float64)
				order = append(order, bc.barcode)
			}
			data[bc.barcode][key] = float64(bc.reads)
		}
	}
	if len(order) == 0 {
		return nil
	}
	if len(order) > maxUnknownBarcodes {
		for _, bc := range order[maxUnknownBarcodes:] {
			delete(data, bc)
		}
	}

	return &report.BarGraph{
		ID:       "bclconvert_undetermined",
		Title:    "bclconvert: Undetermined barcodes by lane",
		YLabel:   "Count",
		Datasets: []report.BarDataset{{Categories: cats, Data: data}},
	}
}

func depthDescription(genomeSize int64) string {
	desc := "Estimated sequencing depth based on the number of bases with quality score greater or equal to Q30"
	if genomeSize > 0 {
		desc += fmt.Sprintf(", assuming the genome size is %d as provided in config", genomeSize)
	}
	return desc
}

func sampleTable(b *modules.Base, data report.SampleData, genomeSize int64) *report.Table {
	var cols []report.Column
	if genomeSize > 0 {
		cols = append(cols, report.Column{Key: "depth", Header: report.Header{
			Title:       "Coverage",
			Description: depthDescription(genomeSize),
			Min:         report.Float(0),
			Suffix:      "X",
			Scale:       "BuPu",
		}})
	}
	cols = append(cols,
		report.Column{Key: "clusters", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Clusters",
			Description: "Total number of clusters (read pairs) for this sample as determined by bclconvert demultiplexing (%s)",
			Scale:       "Blues",
		})},
		report.Column{Key: "yield", Header: b.BaseCountHeader(report.Header{
			Title:       "Yield (%s)",
			Description: "Total number of bases for this sample as determined by bclconvert demultiplexing (%s)",
			Scale:       "Greens",
		})},
		report.Column{Key: "percent_reads", Header: pctHeader("% Clusters",
			"Percentage of clusters (read pairs) for this sample in this run, as determined by bclconvert demultiplexing", "Blues")},
		report.Column{Key: "percent_yield", Header: pctHeader("% Yield",
			"Percentage of sequenced bases for this sample in this run", "Greens")},
		report.Column{Key: "basesQ30", Header: b.BaseCountHeader(report.Header{
			Title:       "Bases (%s) ≥ Q30 (PF)",
			Description: "Number of bases with a Phred score of 30 or higher, passing filter (%s)",
			Scale:       "Blues",
		})},
		report.Column{Key: "yield_q30_percent", Header: pctHeader("% Bases ≥ Q30 (PF)",
			"Percent of bases with a Phred score of 30 or higher, passing filter", "Greens")},
		report.Column{Key: "perfect_percent", Header: pctHeader("% Perfect Index",
			"Percent of reads with perfect index (0 mismatches)", "RdYlGn")},
		report.Column{Key: "one_mismatch_percent", Header: pctHeader("% One Mismatch Index",
			"Percent of reads with one mismatch index", "RdYlGn")},
		report.Column{Key: "mean_quality", Header: qualityHeader("RdYlGn")},
		report.Column{Key: "index", Header: report.Header{Title: "Index", Description: "Sample index", Hidden: true}},
		report.Column{Key: "sample_project", Header: report.Header{Title: "Project", Description: "Sample project", Hidden: true}},
	)

	return &report.Table{
		ID:      "bclconvert-sample-stats-table",
		Title:   "bclconvert Sample Statistics",
		Columns: cols,
		Data:    data,
	}
}

func laneTable(b *modules.Base, data report.SampleData, genomeSize int64) *report.Table {
	var cols []report.Column
	if genomeSize > 0 {
		cols = append(cols, report.Column{Key: "depth", Header: report.Header{
			Title:       "Coverage",
			Description: depthDescription(genomeSize),
			Suffix:      "X",
			Scale:       "BuPu",
		}})
	}
	cols = append(cols,
		report.Column{Key: "clusters", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Clusters",
			Description: "Total number of clusters (read pairs) for this lane as determined by bclconvert demultiplexing (%s)",
			Scale:       "Blues",
		})},
		report.Column{Key: "yield", Header: b.BaseCountHeader(report.Header{
			Title:       "Yield (%s)",
			Description: "Total number of bases for this lane as determined by bclconvert demultiplexing (%s)",
			Scale:       "Greens",
		})},
		report.Column{Key: "basesQ30", Header: b.BaseCountHeader(report.Header{
			Title:       "Bases (%s) ≥ Q30 (PF)",
			Description: "Number of bases with a Phred score of 30 or higher, passing filter (%s)",
			Scale:       "Blues",
		})},
		report.Column{Key: "yield_q30_percent", Header: pctHeader("% Bases ≥ Q30 (PF)",
			"Percent of bases with a Phred score of 30 or higher, passing filter", "Greens")},
		report.Column{Key: "perfect_index_reads", Header: b.ReadCountHeader(report.Header{
			Title:       "%s Perfect Index",
			Description: "Reads with perfect index - 0 mismatches (%s)",
			Scale:       "Blues",
		})},
		report.Column{Key: "one_mismatch_index_reads", Header: b.ReadCountHeader(report.Header{
			Title:       "%s One Mismatch",
			Description: "Reads with one mismatch index (%s)",
			Scale:       "Spectral",
		})},
		report.Column{Key: "percent_perfectIndex", Header: pctHeader("% Perfect Index",
			"Percent of reads with perfect index - 0 mismatches", "RdYlGn")},
		report.Column{Key: "percent_oneMismatch", Header: pctHeader("% One Mismatch",
			"Percent of reads with one mismatch", "RdYlGn")},
		report.Column{Key: "mean_quality", Header: qualityHeader("PiYG")},
	)

	return &report.Table{
		ID:          "bclconvert-lane-stats-table",
		Title:       "bclconvert Lane Statistics",
		FirstColumn: "Run ID - Lane",
		Columns:     cols,
		Data:        data,
	}
}

func pctHeader(title, desc, scale string) report.Header {
	return report.Header{
		Title:       title,
		Description: desc,
		Min:         report.Float(0),
		Max:         report.Float(100),
		Suffix:      "%",
		Scale:       scale,
		Format:      "%.1f",
	}
}

func qualityHeader(scale string) report.Header {
	return report.Header{
		Title:       "Mean Quality Score",
		Description: "Mean quality score of bases",
		Min:         report.Float(0),
		Max:         report.Float(40),
		Scale:       scale,
	}
}

// laneID formats the Lane column as a lane ID.
func laneID(v string) string {
	return "L" + strings.TrimSpace(v)
}
