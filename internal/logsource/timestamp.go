package logsource

import (
	"fmt"
	"regexp"
	"time"
)

// TimestampExtractor extracts and parses a timestamp from a log line.
type TimestampExtractor struct {
	pattern *regexp.Regexp
	layout  string
}

// NewTimestampExtractor builds an extractor from a compiled pattern (its
// first capture group is the timestamp substring) and a time.Parse layout.
func NewTimestampExtractor(pattern *regexp.Regexp, layout string) *TimestampExtractor {
	return &TimestampExtractor{pattern: pattern, layout: layout}
}

// Extract returns the parsed timestamp, or an error if the pattern doesn't
// match or the captured substring doesn't parse under layout.
func (e *TimestampExtractor) Extract(line string) (time.Time, error) {
	matches := e.pattern.FindStringSubmatch(line)
	if len(matches) < 2 {
		return time.Time{}, fmt.Errorf("timestamp pattern did not match")
	}

	tsStr := matches[1]
	ts, err := time.Parse(e.layout, tsStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", tsStr, err)
	}

	return ts, nil
}
