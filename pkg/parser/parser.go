package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// ErrStopScan may be returned by an EachLine callback to end the scan early
// without reporting an error.
var ErrStopScan = errors.New("stop scan")

// FileSource implements LineSource for reading from log files.
// Gzip-compressed files are decompressed on the fly.
type FileSource struct {
	files []string

	current        io.ReadCloser
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a LineSource that reads the given files in order.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next returns the next log line.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		if s.currentScanner.Scan() {
			s.currentLine++
			return &LogLine{
				Content: s.currentScanner.Text(),
				Source:  s.currentSource,
				LineNum: s.currentLine,
			}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	rc, err := openFile(path)
	if err != nil {
		return err
	}

	s.current = rc
	s.currentScanner = bufio.NewScanner(rc)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// EachLine calls fn for every line of f. Returning ErrStopScan from fn ends
// the scan early; any other error is returned as is.
func EachLine(ctx context.Context, f *LogFile, fn func(line *LogLine) error) error {
	source := NewFileSource([]string{f.Path()})
	defer source.Close()

	for {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(line); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
}

// FindFirst returns the submatches of the first line in f matching re.
// It returns ErrNoMatch when no line matches.
func FindFirst(ctx context.Context, f *LogFile, re *regexp.Regexp) ([]string, error) {
	var found []string
	err := EachLine(ctx, f, func(line *LogLine) error {
		if m := re.FindStringSubmatch(line.Content); m != nil {
			found = m
			return ErrStopScan
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNoMatch
	}
	return found, nil
}
