package logsource

import (
	"context"
	"io"
	"testing"
	"time"
)

// sliceSource is a trivial Source backed by a fixed slice, for testing the
// merge/tag layers without touching the filesystem.
type sliceSource struct {
	lines []*ParsedLine
	i     int
}

func (s *sliceSource) Next(ctx context.Context) (*ParsedLine, error) {
	if s.i >= len(s.lines) {
		return nil, io.EOF
	}
	line := s.lines[s.i]
	s.i++
	return line, nil
}

func (s *sliceSource) Close() error { return nil }

func at(t time.Time, raw string) *ParsedLine {
	return &ParsedLine{Raw: raw, Timestamp: t}
}

func TestMergedSourceOrdersByTimestamp(t *testing.T) {
	base := time.Now()
	a := &sliceSource{lines: []*ParsedLine{
		at(base, "a0"),
		at(base.Add(2*time.Second), "a1"),
	}}
	b := &sliceSource{lines: []*ParsedLine{
		at(base.Add(1*time.Second), "b0"),
		at(base.Add(3*time.Second), "b1"),
	}}

	merged := NewMergedSource(a, b)
	defer merged.Close()

	var got []string
	ctx := context.Background()
	for {
		line, err := merged.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		got = append(got, line.Raw)
	}

	want := []string{"a0", "b0", "a1", "b1"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
