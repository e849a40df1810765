package correlation

import (
	"fmt"

	"github.com/ccollicutt/correl8/pkg/events"
	"github.com/ccollicutt/correl8/pkg/template"
)

// InjectMode directs a host sink on how to deliver an emitted Alert.
type InjectMode int

const (
	// InjectLog asks the host to write the alert's message to its own log.
	InjectLog InjectMode = iota
	// InjectForward asks the host to reinject the alert as an output event.
	InjectForward
	// InjectLoopback asks the engine to re-enqueue the alert as a new
	// incoming Message on its own input channel.
	InjectLoopback
)

func (m InjectMode) String() string {
	switch m {
	case InjectForward:
		return "forward"
	case InjectLoopback:
		return "loopback"
	default:
		return "log"
	}
}

// ParseInjectMode parses the three configuration spellings from spec §6.
func ParseInjectMode(s string) (InjectMode, error) {
	switch s {
	case "", "log":
		return InjectLog, nil
	case "forward":
		return InjectForward, nil
	case "loopback":
		return InjectLoopback, nil
	default:
		return InjectLog, fmt.Errorf("correlation: unknown inject_mode %q", s)
	}
}

// Alert is the event an Action synthesizes, tagged with how the host should
// deliver it.
type Alert struct {
	Event      events.Event
	InjectMode InjectMode
}

// ResponseSender is the narrow interface actions use to emit alerts without
// depending on the reactor's concrete response channel type.
type ResponseSender interface {
	SendAlert(Alert)
}

// Action is the side-effect contract fired when a context opens or closes.
// Implementations must not mutate the State snapshot they are given.
type Action interface {
	OnOpened(state *State, ctx *BaseContext, responder ResponseSender)
	OnClosed(state *State, ctx *BaseContext, responder ResponseSender)
}

// MessageAction is the built-in Action: it formats a message template (and
// optional key/value templates) against the context's buffered messages and
// emits the result as an Alert.
type MessageAction struct {
	UUID       string
	Name       string
	HasName    bool
	Message    template.Template
	Values     map[string]template.Template
	When       ExecCondition
	InjectMode InjectMode
}

// OnOpened fires the action if When.OnOpened is set.
func (a *MessageAction) OnOpened(state *State, ctx *BaseContext, responder ResponseSender) {
	if a.When.OnOpened {
		a.execute(state, ctx, responder)
	}
}

// OnClosed fires the action if When.OnClosed is set.
func (a *MessageAction) OnClosed(state *State, ctx *BaseContext, responder ResponseSender) {
	if a.When.OnClosed {
		a.execute(state, ctx, responder)
	}
}

// execute implements spec §4.F steps 1-5: format the message, build the
// event, set values, set name, emit.
func (a *MessageAction) execute(state *State, ctx *BaseContext, responder ResponseSender) {
	contextID := ctx.UUID
	message := a.Message.FormatWithContext(state.Messages, contextID)

	ev := events.New(a.UUID, message)
	for key, tmpl := range a.Values {
		ev.Set(key, tmpl.FormatWithContext(state.Messages, contextID))
	}
	if a.HasName {
		ev.SetName(a.Name)
	}

	responder.SendAlert(Alert{Event: ev, InjectMode: a.InjectMode})
}
