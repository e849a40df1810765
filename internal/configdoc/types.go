// Package configdoc defines the on-disk schema for a correl8 configuration
// document and loads/validates it (spec §6). It is the generalization of
// negalog's pkg/config: where that package described three hard-coded rule
// shapes (sequence/periodic/conditional), this one describes the single
// declarative Context shape the correlation engine actually drives.
package configdoc

import (
	"regexp"
)

// Document is the root configuration structure, loaded from either YAML or
// JSON depending on the file extension given to the CorrelatorFactory.
type Document struct {
	// LogSources lists the files/globs the run command reads lines from.
	// Ambient to the engine itself (spec §4.A speaks only of an Event
	// capability) but required by any host that reads from files rather
	// than piping events in some other way.
	LogSources []string `yaml:"log_sources" json:"log_sources"`

	// TimestampFormat extracts a line's timestamp so logsource can order
	// merged sources chronologically (spec §2 "chronologically-ordered").
	TimestampFormat TimestampConfig `yaml:"timestamp_format" json:"timestamp_format"`

	// TagPatterns classifies each ingested line into an event uuid the
	// correlation engine can pattern-match on — the host-side analogue of
	// negalog's per-rule regex patterns, generalized into one ordered list
	// shared across every context.
	TagPatterns []TagPatternConfig `yaml:"tag_patterns,omitempty" json:"tag_patterns,omitempty"`

	// Contexts is the heart of the document: the declarative context
	// configurations the factory compiles into a ContextMap (spec §4.L).
	Contexts []ContextConfig `yaml:"contexts" json:"contexts"`

	// Webhooks lists forward-mode sinks alerts can be delivered to.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" json:"webhooks,omitempty"`
}

// TimestampConfig defines how to extract and parse a timestamp from a log
// line, unchanged in shape from negalog's config.TimestampConfig.
type TimestampConfig struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Layout  string `yaml:"layout" json:"layout"`

	compiledPattern *regexp.Regexp
}

// CompiledPattern returns the Pattern compiled during Validate, or nil if
// the document was never validated.
func (tf *TimestampConfig) CompiledPattern() *regexp.Regexp {
	return tf.compiledPattern
}

// TagPatternConfig names one regex used to classify a raw log line: the
// first pattern (in list order) whose regex matches a line assigns that
// line's event uuid.
type TagPatternConfig struct {
	UUID    string `yaml:"uuid" json:"uuid"`
	Pattern string `yaml:"pattern" json:"pattern"`

	compiledPattern *regexp.Regexp
}

// Compile returns the Pattern compiled during Validate, or compiles it on
// demand if the document was never validated.
func (tp *TagPatternConfig) Compile() (*regexp.Regexp, error) {
	if tp.compiledPattern != nil {
		return tp.compiledPattern, nil
	}
	return regexp.Compile(tp.Pattern)
}

// ContextConfig is one configured context (spec §6): identity, the
// conditions governing its open/close lifecycle, and the actions fired on
// those transitions.
type ContextConfig struct {
	Name     string           `yaml:"name,omitempty" json:"name,omitempty"`
	UUID     string           `yaml:"uuid" json:"uuid"`
	Patterns []string         `yaml:"patterns,omitempty" json:"patterns,omitempty"`
	Conditions ConditionsConfig `yaml:"conditions" json:"conditions"`
	Actions  []ActionConfig   `yaml:"actions" json:"actions"`
}

// ConditionsConfig mirrors correlation.Conditions except for Patterns, which
// lives on ContextConfig; it is the wire shape that gets compiled into one. Timeout and RenewTimeout
// accept either a Go duration string ("30s") or a number of milliseconds
// (see Duration), so both YAML and JSON documents can express them.
type ConditionsConfig struct {
	Timeout      Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RenewTimeout Duration `yaml:"renew_timeout,omitempty" json:"renew_timeout,omitempty"`
	MaxSize      int      `yaml:"max_size,omitempty" json:"max_size,omitempty"`
	FirstOpens   bool     `yaml:"first_opens,omitempty" json:"first_opens,omitempty"`
	LastCloses   bool     `yaml:"last_closes,omitempty" json:"last_closes,omitempty"`
}

// WhenConfig gates when a message action fires; both default false when
// the object is omitted entirely (spec §6).
type WhenConfig struct {
	OnOpened bool `yaml:"on_opened,omitempty" json:"on_opened,omitempty"`
	OnClosed bool `yaml:"on_closed,omitempty" json:"on_closed,omitempty"`
}

// ActionConfig is internally tagged: the variant is named by a "type" field
// inside the action object. A single-key object keyed by the variant name
// is not accepted. "message" is the only variant, mirroring
// correlation.MessageAction (spec §4.F).
type ActionConfig struct {
	Type       string            `yaml:"type" json:"type"`
	UUID       string            `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Name       string            `yaml:"name,omitempty" json:"name,omitempty"`
	Message    string            `yaml:"message,omitempty" json:"message,omitempty"`
	Values     map[string]string `yaml:"values,omitempty" json:"values,omitempty"`
	When       WhenConfig        `yaml:"when,omitempty" json:"when,omitempty"`
	InjectMode string            `yaml:"inject_mode,omitempty" json:"inject_mode,omitempty"`
}

// WebhookConfig defines a forward-mode alert sink, unchanged in shape from
// negalog's config.WebhookConfig except that Timeout is a Duration rather
// than a bare time.Duration, for the same JSON-parity reason as
// ConditionsConfig.
type WebhookConfig struct {
	Name    string   `yaml:"name,omitempty" json:"name,omitempty"`
	URL     string   `yaml:"url" json:"url"`
	Token   string   `yaml:"token,omitempty" json:"token,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}
