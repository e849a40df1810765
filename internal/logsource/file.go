package logsource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
)

// FileSource implements Source for reading from log files in order.
type FileSource struct {
	files     []string
	extractor *TimestampExtractor

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a Source that reads from files in order, extracting
// each line's timestamp with pattern/layout.
func NewFileSource(files []string, pattern *regexp.Regexp, layout string) *FileSource {
	return &FileSource{
		files:     files,
		extractor: NewTimestampExtractor(pattern, layout),
		fileIndex: -1,
	}
}

// Next returns the next parsed log line, skipping any that don't match the
// timestamp pattern. Returns io.EOF once every file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*ParsedLine, error) {
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
			line := s.currentScanner.Text()

			ts, err := s.extractor.Extract(line)
			if err != nil {
				continue
			}

			return &ParsedLine{
				Raw:       line,
				Timestamp: ts,
				Source:    s.currentSource,
				LineNum:   s.currentLine,
			}, nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
		s.currentScanner = nil
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
	f, err := os.Open(path) // #nosec G304 -- configured log source paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}
