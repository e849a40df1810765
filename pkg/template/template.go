// Package template provides the compiled-template abstraction actions use
// to format alert messages and field values from a context's event buffer.
//
// Only a literal/interpolating implementation is built in; a host embedding
// correl8 with a richer expression language (e.g. syslog-ng's template
// language) supplies its own Factory per spec §6's TemplateFactory contract.
package template

import (
	"fmt"
	"strings"

	"github.com/ccollicutt/correl8/pkg/events"
)

// Template is a compiled, reusable formatter. It is invoked with the
// messages buffered in a context's State plus the context's id, and
// produces a string — never an error. What an unresolvable reference
// renders as is up to the implementation; the built-in one leaves such a
// macro in the output as literal text.
type Template interface {
	// FormatWithContext renders the template against a context's buffered
	// messages and context id.
	FormatWithContext(messages []events.Event, contextID string) string

	// Format renders the template against a single event, used for
	// per-message substitutions independent of context framing.
	Format(message events.Event) string
}

// Factory compiles template source strings. CorrelatorFactory calls Compile
// once per literal template string found in a loaded configuration; a
// compile failure aborts assembly (spec §4.L).
type Factory interface {
	Compile(source string) (Template, error)
}

// macro is a single $(...) substitution recognized by the built-in factory.
const (
	macroContextID = "$(context_id)"
	macroContextLen = "$(context_len)"
	macroLastMessage = "$(last_message)"
)

// literal is the built-in Template implementation. It supports a handful of
// macros plus literal passthrough text; it never returns an error from
// Format/FormatWithContext, matching spec §7's "the engine treats the
// formatted string opaquely."
type literal struct {
	source string
}

// DefaultFactory compiles literal/macro templates without any external
// expression engine. It is the Factory correl8's CLI wires by default; a
// host pipeline with a richer template language supplies its own Factory.
type DefaultFactory struct{}

// Compile validates the template source and returns a literal Template.
// The only validation performed is balanced macro delimiters; unresolved
// or unknown macros are left as literal text at format time rather than
// rejected, since a host's own field names cannot be known at compile time.
func (DefaultFactory) Compile(source string) (Template, error) {
	rest := source
	for {
		i := strings.Index(rest, "$(")
		if i < 0 {
			break
		}
		rest = rest[i+2:]
		j := strings.IndexByte(rest, ')')
		if j < 0 || strings.Contains(rest[:j], "$(") {
			return nil, fmt.Errorf("template: unbalanced macro in %q", source)
		}
		rest = rest[j+1:]
	}
	return &literal{source: source}, nil
}

func (t *literal) FormatWithContext(messages []events.Event, contextID string) string {
	out := t.source
	out = strings.ReplaceAll(out, macroContextID, contextID)
	out = strings.ReplaceAll(out, macroContextLen, fmt.Sprintf("%d", len(messages)))
	if len(messages) > 0 {
		out = strings.ReplaceAll(out, macroLastMessage, messages[len(messages)-1].Message())
	}
	return out
}

func (t *literal) Format(message events.Event) string {
	out := t.source
	if message != nil {
		out = strings.ReplaceAll(out, macroLastMessage, message.Message())
	}
	return out
}
