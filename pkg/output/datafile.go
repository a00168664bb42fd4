package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/tsv"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/report"
)

// DataWriter writes module data files into a directory. It implements
// modules.DataWriter.
type DataWriter struct {
	dir    string
	format config.DataFormat
}

// NewDataWriter creates a writer for dir. The directory is created on the
// first write.
func NewDataWriter(dir string, format config.DataFormat) *DataWriter {
	if format == "" {
		format = config.DataFormatTSV
	}
	return &DataWriter{dir: dir, format: format}
}

// Dir returns the output directory.
func (d *DataWriter) Dir() string {
	return d.dir
}

// WriteData writes data to <dir>/<name>.<format> and returns the path.
func (d *DataWriter) WriteData(name string, data report.SampleData) (string, error) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	path := filepath.Join(d.dir, name+"."+string(d.format))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	bw := bufio.NewWriter(f)

	switch d.format {
	case config.DataFormatTSV:
		err = writeTSV(bw, data)
	case config.DataFormatJSON:
		enc := json.NewEncoder(bw)
		enc.SetIndent("", "    ")
		err = enc.Encode(data)
	case config.DataFormatYAML:
		enc := yaml.NewEncoder(bw)
		err = enc.Encode(data)
		if cerr := enc.Close(); err == nil {
			err = cerr
		}
	default:
		err = fmt.Errorf("unknown data format %q", d.format)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// writeTSV writes one row per sample (sorted) and one column per metric key
// (sorted union). Missing values are empty.
func writeTSV(w *bufio.Writer, data report.SampleData) error {
	keys := data.Keys()
	tw := tsv.NewWriter(w)

	tw.WriteString("Sample")
	for _, k := range keys {
		tw.WriteString(k)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}

	for _, s := range data.Samples() {
		tw.WriteString(s)
		for _, k := range keys {
			tw.WriteString(dataValue(data[s][k]))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// dataValue renders a metric at full precision.
func dataValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(n)
	}
}
