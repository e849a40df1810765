// Package detector auto-detects a log file's timestamp format, so the
// `detect` CLI command can hand a caller a ready-to-paste timestamp_format
// block instead of requiring them to write the regex/layout pair by hand.
//
// Kept close to negalog's pkg/detector — timestamp format sniffing owes
// nothing to negalog's rule engines and transfers over unmodified in
// substance, generalized only to emit correl8's configdoc shape rather than
// negalog's.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/correl8/internal/configdoc"
)

// DetectionResult holds the outcome of analyzing a sample of log lines.
type DetectionResult struct {
	Matches       []FormatMatch
	SampledLines  int
	ParsedLines   int
	AmbiguityNote string
}

// FormatMatch is one timestamp format that matched, with its confidence.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64
	MatchCount int
	SampleLine string
	ParsedTime time.Time
}

// Detector analyzes log files to identify timestamp formats.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
}

// Option configures a Detector.
type Option func(*Detector)

// WithSampleSize overrides the default 100-line sample.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector with the built-in formats.
func New(opts ...Option) *Detector {
	d := &Detector{formats: DefaultFormats(), sampleSize: 100}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples path and detects its timestamp format.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines directly.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{SampledLines: len(lines)}
	if len(lines) == 0 {
		return result
	}

	type formatStats struct {
		format     *TimestampFormat
		matchCount int
		sampleLine string
		parsedTime time.Time
	}
	stats := make(map[string]*formatStats)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}
			parsedTime, ok := d.parseTimestamp(matches[1], format.Layout)
			if !ok {
				continue
			}
			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{format: format, sampleLine: line, parsedTime: parsedTime}
			}
			stats[key].matchCount++
		}
	}

	for _, s := range stats {
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}
	if len(result.Matches) > 0 && result.Matches[0].Format.Ambiguous {
		result.AmbiguityNote = "This format has date ordering ambiguity (MM/DD vs DD/MM). " +
			"Verify the layout matches your log format. " +
			"For European format (DD/MM/YYYY), use layout: \"02/01/2006 15:04:05\""
	}

	return result
}

func (d *Detector) parseTimestamp(tsStr, layout string) (time.Time, bool) {
	switch layout {
	case "UNIX_SECONDS":
		secs, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil || secs < 0 || secs > 4102444800 {
			return time.Time{}, false
		}
		return time.Unix(secs, 0), true
	case "UNIX_MILLIS":
		millis, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs := millis / 1000
		if secs < 0 || secs > 4102444800 {
			return time.Time{}, false
		}
		return time.UnixMilli(millis), true
	default:
		t, err := time.Parse(layout, tsStr)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	file, err := os.Open(path) // #nosec G304 -- path is provided by the operator via CLI
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(lines) < d.sampleSize {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// BestMatch returns the highest-confidence match, or nil if none matched.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch reports whether at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// TimestampConfig converts the best match into a ready-to-use
// configdoc.TimestampConfig, or nil if nothing matched.
func (m *FormatMatch) TimestampConfig() *configdoc.TimestampConfig {
	if m == nil {
		return nil
	}
	return &configdoc.TimestampConfig{Pattern: m.Format.PatternStr, Layout: m.Format.Layout}
}
