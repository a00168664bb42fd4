// Package parser provides log file reading and metric extraction.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// ErrNoMatch is returned when a scan finds no line matching a pattern.
var ErrNoMatch = errors.New("no matching line")

// LogLine is a single raw line of a log file.
type LogLine struct {
	// Content is the raw line text without the trailing newline.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// LogFile is a discovered file handed to a module.
type LogFile struct {
	// Root is the directory containing the file.
	Root string

	// Filename is the base name of the file.
	Filename string

	// Key is the search key the file matched.
	Key string

	// SampleName is the cleaned sample name guessed from Filename.
	SampleName string
}

// Path returns the full path of the file.
func (f *LogFile) Path() string {
	return filepath.Join(f.Root, f.Filename)
}

// Open opens the file for reading, transparently decompressing gzip content.
func (f *LogFile) Open() (io.ReadCloser, error) {
	return openFile(f.Path())
}

// ReadAll returns the whole (decompressed) file content.
func (f *LogFile) ReadAll() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path(), err)
	}
	return data, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

type bufferedFile struct {
	*bufio.Reader
	file *os.File
}

func (b *bufferedFile) Close() error {
	return b.file.Close()
}

// openFile opens path and wraps it in a gzip reader when the content
// starts with the gzip magic bytes.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) // #nosec G304 -- discovered paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(gzipMagic))
	if err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		return &gzipReadCloser{Reader: zr, file: f}, nil
	}

	return &bufferedFile{Reader: br, file: f}, nil
}
