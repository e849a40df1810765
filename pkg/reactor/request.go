// Package reactor implements the correlation engine's single-threaded
// multiplexer (spec §4.I): the one goroutine that owns the ContextMap and
// every Context's State, serializing Message, Timer, and Exit requests
// from an input channel and publishing Alert/Exit responses on an output
// channel.
package reactor

import (
	"github.com/ccollicutt/correl8/pkg/events"
	"github.com/ccollicutt/correl8/pkg/timerwheel"
)

// Request is the sum type of values the reactor accepts on its input
// channel: an incoming event, a timer tick, or a shutdown signal.
type Request interface {
	isRequest()
}

// MessageRequest carries a single incoming event to dispatch.
type MessageRequest struct {
	Event events.Event
}

func (MessageRequest) isRequest() {}

// TimerRequest carries a tick to advance every open context's timers by.
type TimerRequest struct {
	Tick timerwheel.Tick
}

func (TimerRequest) isRequest() {}

// ExitRequest signals the reactor to begin shutting down. Both the
// producer and the tick emitter may send this, in either order; see
// demux.go for the two-phase handling that tolerates both.
type ExitRequest struct{}

func (ExitRequest) isRequest() {}
