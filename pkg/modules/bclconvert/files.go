package bclconvert

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ccollicutt/qclog/pkg/parser"
)

// runInfo is what the module needs from RunInfo.xml.
type runInfo struct {
	runID string

	// clusterLength is the number of cycles of the first two non-index
	// reads.
	clusterLength int64
}

type runInfoXML struct {
	Run struct {
		ID    string `xml:"Id,attr"`
		Reads []struct {
			Number        string `xml:"Number,attr"`
			NumCycles     int64  `xml:"NumCycles,attr"`
			IsIndexedRead string `xml:"IsIndexedRead,attr"`
		} `xml:"Reads>Read"`
	} `xml:"Run"`
}

func parseRunInfo(f *parser.LogFile) (runInfo, error) {
	content, err := f.ReadAll()
	if err != nil {
		return runInfo{}, err
	}
	var doc runInfoXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return runInfo{}, fmt.Errorf("decoding RunInfo.xml: %w", err)
	}
	if doc.Run.ID == "" {
		return runInfo{}, errors.New("RunInfo.xml has no run ID")
	}

	var reads []int64
	for _, r := range doc.Run.Reads {
		if r.IsIndexedRead == "N" {
			reads = append(reads, r.NumCycles)
		}
	}
	if len(reads) == 0 {
		return runInfo{}, errors.New("no non-index reads found in RunInfo.xml")
	}

	info := runInfo{runID: doc.Run.ID, clusterLength: reads[0]}
	if len(reads) > 1 {
		info.clusterLength += reads[1]
	}
	return info, nil
}

// csvRow maps header names to the fields of one row.
type csvRow map[string]string

func (r csvRow) int(key string) (int64, error) {
	v, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("missing column %q", key)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return n, nil
}

// optInt returns 0 for a missing or empty column.
func (r csvRow) optInt(key string) (int64, error) {
	if strings.TrimSpace(r[key]) == "" {
		return 0, nil
	}
	return r.int(key)
}

func (r csvRow) float(key string) (float64, error) {
	v, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("missing column %q", key)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", key, err)
	}
	return n, nil
}

func (r csvRow) optFloat(key string) (float64, error) {
	if strings.TrimSpace(r[key]) == "" {
		return 0, nil
	}
	return r.float(key)
}

func (r csvRow) required(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", fmt.Errorf("missing column %q", key)
	}
	return strings.TrimSpace(v), nil
}

// readCSV reads a headed CSV file into rows. Rows may be shorter than the
// header.
func readCSV(ctx context.Context, f *parser.LogFile) ([]csvRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("empty CSV file")
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []csvRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		row := make(csvRow, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[strings.TrimSpace(h)] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type demuxRow struct {
	lane        string
	sample      string
	index       string
	project     string
	hasProject  bool
	reads       int64
	perfect     int64
	oneMismatch int64
	basesQ30    int64
	meanQuality float64
}

// readDemux reads Demultiplex_Stats.csv. The Q30 base and mean quality
// columns only exist before BCL Convert 3.9.3 and default to 0.
func readDemux(ctx context.Context, f *parser.LogFile) ([]demuxRow, error) {
	rows, err := readCSV(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]demuxRow, 0, len(rows))
	for i, row := range rows {
		d, err := demuxFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func demuxFromRow(row csvRow) (demuxRow, error) {
	var d demuxRow
	lane, err := row.required("Lane")
	if err != nil {
		return d, err
	}
	d.lane = laneID(lane)
	if d.sample, err = row.required("SampleID"); err != nil {
		return d, err
	}
	if d.reads, err = row.int("# Reads"); err != nil {
		return d, err
	}
	if d.sample == undeterminedSample {
		return d, nil
	}

	if d.perfect, err = row.int("# Perfect Index Reads"); err != nil {
		return d, err
	}
	if d.oneMismatch, err = row.int("# One Mismatch Index Reads"); err != nil {
		return d, err
	}
	if d.basesQ30, err = row.optInt("# of >= Q30 Bases (PF)"); err != nil {
		return d, err
	}
	if d.meanQuality, err = row.optFloat("Mean Quality Score (PF)"); err != nil {
		return d, err
	}
	d.index = strings.TrimSpace(row["Index"])
	d.project, d.hasProject = row["Sample_Project"]
	return d, nil
}

type qualityRow struct {
	lane       string
	sample     string
	yield      int64
	yieldQ30   int64
	qualitySum float64
}

// readQualityMetrics reads Quality_Metrics.csv. A sample has one row per
// read in each lane.
func readQualityMetrics(ctx context.Context, f *parser.LogFile) ([]qualityRow, error) {
	rows, err := readCSV(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]qualityRow, 0, len(rows))
	for i, row := range rows {
		q, err := qualityFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func qualityFromRow(row csvRow) (qualityRow, error) {
	var q qualityRow
	lane, err := row.required("Lane")
	if err != nil {
		return q, err
	}
	q.lane = laneID(lane)
	if q.sample, err = row.required("SampleID"); err != nil {
		return q, err
	}
	if q.sample == undeterminedSample {
		return q, nil
	}
	if q.yield, err = row.int("Yield"); err != nil {
		return q, err
	}
	if q.yieldQ30, err = row.int("YieldQ30"); err != nil {
		return q, err
	}
	if q.qualitySum, err = row.float("QualityScoreSum"); err != nil {
		return q, err
	}
	return q, nil
}

type unknownRow struct {
	lane    string
	barcode string
	reads   int64
}

// readUnknownBarcodes reads Top_Unknown_Barcodes.csv. The barcode is the
// index and index2 columns joined with "-".
func readUnknownBarcodes(ctx context.Context, f *parser.LogFile) ([]unknownRow, error) {
	rows, err := readCSV(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]unknownRow, 0, len(rows))
	for i, row := range rows {
		lane, err := row.required("Lane")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		reads, err := row.int("# Reads")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, unknownRow{
			lane:    laneID(lane),
			barcode: strings.TrimSpace(row["index"]) + "-" + strings.TrimSpace(row["index2"]),
			reads:   reads,
		})
	}
	return out, nil
}
