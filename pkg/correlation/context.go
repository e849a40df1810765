package correlation

import (
	"time"

	"github.com/ccollicutt/correl8/pkg/events"
)

// BaseContext is the immutable policy shared by every instance of a
// configured context: identity, the conditions that govern opening/closing,
// and the ordered actions fired on those transitions.
type BaseContext struct {
	UUID    string
	Name    string
	HasName bool

	Conditions Conditions
	Actions    []Action
}

// Patterns returns the pattern list ContextMap indexes this context under.
func (b *BaseContext) Patterns() []string {
	return b.Conditions.Patterns
}

// OnMessage drives the state machine for a single incoming event, per spec
// §4.E "On message":
//  1. if open, buffer the message;
//  2. else if the conditions say this event opens the context, buffer it
//     then fire open actions then mark the state open;
//  3. after either, if the conditions say to close, fire close actions then
//     close the state.
func (b *BaseContext) OnMessage(e events.Event, state *State, responder ResponseSender, now time.Time) {
	if state.Open {
		state.addMessage(e, now)
	} else if b.Conditions.IsOpening(e) {
		state.addMessage(e, now)
		b.open(state, responder, now)
	}

	if b.Conditions.IsClosing(state) {
		b.close(state, responder)
	}
}

// OnTimer drives the state machine for a tick, per spec §4.E "On tick":
// advance timers if open, then close if the conditions now say to.
func (b *BaseContext) OnTimer(d time.Duration, state *State, responder ResponseSender) {
	if state.Open {
		state.updateTimers(d)
	}
	if b.Conditions.IsClosing(state) {
		b.close(state, responder)
	}
}

func (b *BaseContext) open(state *State, responder ResponseSender, now time.Time) {
	b.fireActions(state, responder, func(a Action) { a.OnOpened(state, b, responder) })
	state.open(now)
}

func (b *BaseContext) close(state *State, responder ResponseSender) {
	b.fireActions(state, responder, func(a Action) { a.OnClosed(state, b, responder) })
	state.close()
}

// fireActions invokes fire for every configured action in configuration
// order, isolating a panic in one action so it cannot corrupt other
// contexts or abort dispatch of the current event (spec §4.I "Failure
// policy").
func (b *BaseContext) fireActions(state *State, responder ResponseSender, fire func(Action)) {
	for _, a := range b.Actions {
		invokeActionSafely(a, fire)
	}
}

func invokeActionSafely(a Action, fire func(Action)) {
	defer func() {
		if r := recover(); r != nil {
			onActionPanic(a, r)
		}
	}()
	fire(a)
}

// onActionPanic is a package-level hook the CLI's run command overrides to
// log recovered action panics; it defaults to a no-op so this package has
// no hard logging dependency.
var onActionPanic = func(Action, any) {}

// SetActionPanicHandler installs the hook invoked when an Action panics.
// The run command installs one that logs through corrlog and counts the
// panic; the correlator itself installs none.
func SetActionPanicHandler(h func(Action, any)) {
	onActionPanic = h
}

// ContextKind distinguishes the Context sum type's variants (spec §3,
// "Context (sum)"). Only Linear is implemented; Map is reserved — its
// partitioning key and lifecycle are undefined upstream (spec §9 Open
// Questions) and are intentionally not guessed at here.
type ContextKind int

const (
	KindLinear ContextKind = iota
)

// Context is a single configured context: its immutable policy plus its
// live, mutable state. Today only the Linear variant exists; Kind is kept
// so a future Map variant can be added without reshaping ContextMap.
type Context struct {
	Kind  ContextKind
	Base  *BaseContext
	State *State
}

// NewLinearContext builds a Linear context with a fresh, closed State.
func NewLinearContext(base *BaseContext) *Context {
	return &Context{Kind: KindLinear, Base: base, State: NewState()}
}

// OnMessage dispatches to the context's BaseContext driver.
func (c *Context) OnMessage(e events.Event, responder ResponseSender, now time.Time) {
	c.Base.OnMessage(e, c.State, responder, now)
}

// OnTimer dispatches to the context's BaseContext driver.
func (c *Context) OnTimer(d time.Duration, responder ResponseSender) {
	c.Base.OnTimer(d, c.State, responder)
}
