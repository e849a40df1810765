package correlation

import (
	"time"

	"github.com/ccollicutt/correl8/pkg/events"
)

// Conditions is the immutable closure policy attached to a BaseContext:
// when it opens relative to the pattern list, when it closes, and the
// pattern list itself that ContextMap indexes on.
//
// This unifies what negalog's three separate rule engines (sequence,
// periodic, conditional) each hard-coded as bespoke timeout/gap logic into
// one declarative predicate bundle, per spec §3/§4.C.
type Conditions struct {
	// Timeout closes the context once its total elapsed time reaches it.
	Timeout time.Duration

	// RenewTimeout, if non-zero, closes the context once the elapsed time
	// since the last received message reaches it — a sliding-window
	// timeout distinct from Timeout.
	RenewTimeout time.Duration

	// MaxSize, if non-zero, closes the context once its buffered message
	// count reaches it.
	MaxSize int

	// FirstOpens requires the first pattern to match before a context will
	// open; when false, any event opens the context (subject to it also
	// matching one of Patterns via ContextMap dispatch).
	FirstOpens bool

	// LastCloses closes the context when the most recently buffered
	// message matches the last pattern in Patterns.
	LastCloses bool

	// Patterns is the ordered pattern list this context is declared
	// against. An empty list means "match every event" (spec §4.G).
	Patterns []string
}

// IsOpening reports whether e should open a currently-closed context
// governed by these conditions. Total, side-effect-free (spec §4.C).
func (c Conditions) IsOpening(e events.Event) bool {
	if !c.FirstOpens {
		return true
	}
	if len(c.Patterns) == 0 {
		return false
	}
	first := c.Patterns[0]
	for _, id := range e.IDs() {
		if id == first {
			return true
		}
	}
	return false
}

// IsClosing reports whether an open State governed by these conditions
// should close now. Total, side-effect-free (spec §4.C).
func (c Conditions) IsClosing(s *State) bool {
	if !s.Open {
		return false
	}
	return c.isMaxSizeReached(s) || c.isClosingMessage(s) || c.isAnyTimerExpired(s)
}

func (c Conditions) isMaxSizeReached(s *State) bool {
	return c.MaxSize > 0 && len(s.Messages) >= c.MaxSize
}

func (c Conditions) isClosingMessage(s *State) bool {
	if !c.LastCloses || len(c.Patterns) == 0 || len(s.Messages) == 0 {
		return false
	}
	last := c.Patterns[len(c.Patterns)-1]
	lastMsg := s.Messages[len(s.Messages)-1]
	for _, id := range lastMsg.IDs() {
		if id == last {
			return true
		}
	}
	return false
}

func (c Conditions) isAnyTimerExpired(s *State) bool {
	return c.isTimeoutExpired(s) || c.isRenewTimeoutExpired(s)
}

func (c Conditions) isTimeoutExpired(s *State) bool {
	return c.Timeout > 0 && s.Elapsed >= c.Timeout
}

func (c Conditions) isRenewTimeoutExpired(s *State) bool {
	return c.RenewTimeout > 0 && s.ElapsedSinceLast >= c.RenewTimeout
}

// ExecCondition gates when a MessageAction fires. Both default to false,
// applied when a configuration omits the `when` object entirely (spec §6).
type ExecCondition struct {
	OnOpened bool
	OnClosed bool
}
