package reactor

import (
	"time"

	"github.com/ccollicutt/correl8/pkg/correlation"
	"github.com/ccollicutt/correl8/pkg/events"
)

// Reactor is the single goroutine that owns a ContextMap and drives it from
// a stream of Requests, publishing Responses as actions fire and on
// shutdown (spec §4.I). It holds no lock: every mutation of context state
// happens on this goroutine alone.
type Reactor struct {
	contexts *correlation.ContextMap
	in       chan Request
	out      chan Response
	now      func() time.Time
}

// New builds a Reactor over contexts, with the given input/output channel
// capacities. A Reactor must be started with Run in its own goroutine.
func New(contexts *correlation.ContextMap, inCap, outCap int) *Reactor {
	return &Reactor{
		contexts: contexts,
		in:       make(chan Request, inCap),
		out:      make(chan Response, outCap),
		now:      time.Now,
	}
}

// In returns the channel callers send Requests on.
func (r *Reactor) In() chan<- Request {
	return r.in
}

// Out returns the channel Responses (Alerts and the final Exit marker) are
// published on.
func (r *Reactor) Out() <-chan Response {
	return r.out
}

// Run dispatches requests until the demultiplexer reports done — that is,
// until it has observed a second ExitRequest (spec §4.I, §5). It publishes
// a ResponseExit and closes the output channel before returning, so callers
// can range over Out() to drain every alert before shutdown completes.
func (r *Reactor) Run() {
	defer close(r.out)

	responder := channelResponder{out: r.out}
	demux := newDemultiplexer(r.in)

	for {
		req, ok := demux.selectNext()
		if !ok {
			return
		}

		switch req := req.(type) {
		case MessageRequest:
			r.dispatchMessage(req.Event, responder)
		case TimerRequest:
			r.dispatchTimer(req.Tick.Duration, responder)
		case ExitRequest:
			r.out <- Response{Kind: ResponseExit}
		}
	}
}

// dispatchMessage resolves the contexts interested in e via ContextMap.Dispatch
// and drives each in insertion order (spec §4.G, §4.I).
func (r *Reactor) dispatchMessage(e events.Event, responder channelResponder) {
	indices := r.contexts.Dispatch(e.IDs())
	now := r.now()
	for _, i := range indices {
		ctx := r.contexts.Get(i)
		if ctx == nil {
			continue
		}
		ctx.OnMessage(e, responder, now)
	}
}

// dispatchTimer advances every context's timers by d, regardless of pattern
// (spec §4.I "On Timer": every context observes every tick).
func (r *Reactor) dispatchTimer(d time.Duration, responder channelResponder) {
	for _, ctx := range r.contexts.Contexts() {
		ctx.OnTimer(d, responder)
	}
}
