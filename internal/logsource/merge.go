package logsource

import (
	"container/heap"
	"context"
	"io"
)

// MergedSource combines multiple Sources into one stream ordered by
// timestamp (oldest first) — the join that lets correl8 correlate events
// across several log files as though they were one chronological feed
// (spec §2).
type MergedSource struct {
	sources []Source
	heap    *lineHeap
	closed  bool
}

// NewMergedSource creates a Source that merges sources by timestamp.
func NewMergedSource(sources ...Source) *MergedSource {
	return &MergedSource{sources: sources, heap: &lineHeap{}}
}

// Next returns the next line in timestamp order across all sources.
func (m *MergedSource) Next(ctx context.Context) (*ParsedLine, error) {
	if m.heap.Len() == 0 && !m.closed {
		if err := m.initHeap(ctx); err != nil {
			return nil, err
		}
	}

	if m.heap.Len() == 0 {
		return nil, io.EOF
	}

	item := heap.Pop(m.heap).(*heapItem)
	line := item.line

	if nextLine, err := m.sources[item.sourceIdx].Next(ctx); err == nil {
		heap.Push(m.heap, &heapItem{line: nextLine, sourceIdx: item.sourceIdx})
	} else if err != io.EOF {
		return nil, err
	}

	return line, nil
}

func (m *MergedSource) initHeap(ctx context.Context) error {
	heap.Init(m.heap)

	for i, src := range m.sources {
		line, err := src.Next(ctx)
		if err == io.EOF {
			continue
		}
		if err != nil {
			return err
		}
		heap.Push(m.heap, &heapItem{line: line, sourceIdx: i})
	}

	return nil
}

// Close releases every source's resources.
func (m *MergedSource) Close() error {
	m.closed = true
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type heapItem struct {
	line      *ParsedLine
	sourceIdx int
}

type lineHeap []*heapItem

func (h lineHeap) Len() int { return len(h) }

func (h lineHeap) Less(i, j int) bool {
	return h[i].line.Timestamp.Before(h[j].line.Timestamp)
}

func (h lineHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *lineHeap) Push(x interface{}) {
	*h = append(*h, x.(*heapItem))
}

func (h *lineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
