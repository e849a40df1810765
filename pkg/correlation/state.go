package correlation

import (
	"time"

	"github.com/ccollicutt/correl8/pkg/events"
)

// State is a context's mutable per-instance buffer: the events received
// while open, the timers BaseContext's conditions check against, and the
// open/closed flag.
//
// Invariants (spec §3): if Open is false, Messages is empty and both
// timers are zero; Elapsed >= ElapsedSinceLast always; LastMessageAt >=
// OpenedAt whenever Open is true.
type State struct {
	Messages         []events.Event
	OpenedAt         time.Time
	LastMessageAt    time.Time
	Elapsed          time.Duration
	ElapsedSinceLast time.Duration
	Open             bool
}

// NewState returns a freshly built, closed State — the same shape Close
// must restore a previously-open State to (spec §8 "state reset
// idempotence").
func NewState() *State {
	return &State{}
}

// Opening marks the state open. Requires the state to be currently closed;
// callers (BaseContext) enforce the open->(message|tick)*->close ordering.
func (s *State) open(now time.Time) {
	s.Open = true
	s.OpenedAt = now
	s.Elapsed = 0
	s.ElapsedSinceLast = 0
}

// addMessage appends e to the buffer, resetting the renew timer and
// advancing LastMessageAt. BaseContext also calls it on a closed state for
// the opening event, just before opening the state.
func (s *State) addMessage(e events.Event, now time.Time) {
	s.Messages = append(s.Messages, e)
	s.ElapsedSinceLast = 0
	s.LastMessageAt = now
}

// updateTimers advances both timers by d, the nominal duration of one tick.
func (s *State) updateTimers(d time.Duration) {
	s.Elapsed += d
	s.ElapsedSinceLast += d
}

// close clears the buffer and timers and flips Open false, restoring the
// state to its NewState shape.
func (s *State) close() {
	s.Messages = nil
	s.OpenedAt = time.Time{}
	s.LastMessageAt = time.Time{}
	s.Elapsed = 0
	s.ElapsedSinceLast = 0
	s.Open = false
}
