package logsource

import (
	"regexp"

	"github.com/ccollicutt/correl8/pkg/events"
)

// TagPattern names one regex used to classify a raw line into an event
// uuid — the host-side bridge between free-form log text and the engine's
// pattern-matched Event capability (spec §4.A), generalizing the per-rule
// regexes negalog hard-coded into each of its three rule types.
type TagPattern struct {
	UUID    string
	Pattern *regexp.Regexp
}

// Tagger classifies lines against an ordered list of TagPatterns: the first
// pattern whose regex matches wins.
type Tagger struct {
	patterns []TagPattern
}

// NewTagger builds a Tagger from patterns, tried in order.
func NewTagger(patterns []TagPattern) *Tagger {
	return &Tagger{patterns: patterns}
}

// Tag returns the uuid of the first matching pattern, or ("", false) if
// none match.
func (t *Tagger) Tag(line string) (string, bool) {
	for _, p := range t.patterns {
		if p.Pattern.MatchString(line) {
			return p.UUID, true
		}
	}
	return "", false
}

// LogEvent adapts a tagged ParsedLine to events.Event so it can flow
// straight into a correlator.Correlator.
type LogEvent struct {
	uuid   string
	line   *ParsedLine
	fields map[string]string
}

// NewLogEvent builds a LogEvent with uuid (from a Tagger) wrapping line.
func NewLogEvent(uuid string, line *ParsedLine) *LogEvent {
	return &LogEvent{uuid: uuid, line: line, fields: make(map[string]string)}
}

func (e *LogEvent) UUID() string { return e.uuid }

func (e *LogEvent) Name() (string, bool) { return "", false }

func (e *LogEvent) SetName(string) {
	// Tagged log lines don't carry a secondary classification id; uuid
	// (the tag) is the only pattern key logsource produces.
}

func (e *LogEvent) Get(key string) (string, bool) {
	switch key {
	case "source":
		return e.line.Source, true
	default:
		v, ok := e.fields[key]
		return v, ok
	}
}

func (e *LogEvent) Set(key, value string) {
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	e.fields[key] = value
}

func (e *LogEvent) Message() string { return e.line.Raw }

func (e *LogEvent) SetMessage(msg string) { e.line.Raw = msg }

func (e *LogEvent) IDs() []string { return []string{e.uuid} }

var _ events.Event = (*LogEvent)(nil)
