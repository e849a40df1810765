// Package logsource reads log files into chronologically-ordered events the
// correlation engine can dispatch on (spec §2 "chronologically-ordered").
//
// Adapted from negalog's pkg/parser: the file reading, timestamp
// extraction, glob expansion, and timestamp-ordered merge are kept nearly
// verbatim (that plumbing owes nothing to negalog's three rule engines),
// while a new Tagger/LogEvent layer on top classifies each line into an
// events.Event the engine can pattern-match by uuid.
package logsource

import (
	"context"
	"time"
)

// ParsedLine is a single log line with its extracted timestamp, before
// tagging.
type ParsedLine struct {
	Raw       string
	Timestamp time.Time
	Source    string
	LineNum   int
}

// Source provides an iterator over parsed log lines. Implementations must
// be safe for sequential access only, never concurrent.
type Source interface {
	// Next returns the next parsed log line, or io.EOF once exhausted.
	// Lines that cannot be parsed (e.g. no timestamp match) are skipped.
	Next(ctx context.Context) (*ParsedLine, error)

	// Close releases any resources held by the source.
	Close() error
}
