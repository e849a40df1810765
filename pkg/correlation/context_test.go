package correlation

import (
	"testing"
	"time"
)

// recordingResponder captures alerts fired during a test.
type recordingResponder struct {
	alerts []Alert
}

func (r *recordingResponder) SendAlert(a Alert) {
	r.alerts = append(r.alerts, a)
}

// countingAction counts how many times each hook fires — used to verify
// at-most-once firing per transition (spec §8 "Action firing exclusivity").
type countingAction struct {
	opened, closed int
}

func (a *countingAction) OnOpened(*State, *BaseContext, ResponseSender) { a.opened++ }
func (a *countingAction) OnClosed(*State, *BaseContext, ResponseSender) { a.closed++ }

func TestBaseContextThreePatternLinear(t *testing.T) {
	// End-to-end scenario 1 from spec §8: patterns A,B,C, timeout 100ms,
	// first_opens+last_closes, single action. Expect exactly one open-fire
	// and one close-fire once C arrives.
	action := &countingAction{}
	base := &BaseContext{
		UUID: "ctx-1",
		Conditions: Conditions{
			Timeout:    100 * time.Millisecond,
			FirstOpens: true,
			LastCloses: true,
			Patterns:   []string{"A", "B", "C"},
		},
		Actions: []Action{action},
	}
	state := NewState()
	responder := &recordingResponder{}
	now := time.Now()

	base.OnMessage(fakeEvent{ids: []string{"A"}}, state, responder, now)
	if !state.Open {
		t.Fatal("expected context to open on A")
	}
	if action.opened != 1 {
		t.Fatalf("expected exactly one open fire, got %d", action.opened)
	}

	base.OnMessage(fakeEvent{ids: []string{"B"}}, state, responder, now.Add(20*time.Millisecond))
	if !state.Open {
		t.Fatal("expected context to remain open on B")
	}

	base.OnMessage(fakeEvent{ids: []string{"C"}}, state, responder, now.Add(100*time.Millisecond))
	if state.Open {
		t.Fatal("expected context to close on C (last_closes)")
	}
	if action.closed != 1 {
		t.Fatalf("expected exactly one close fire, got %d", action.closed)
	}
}

func TestBaseContextFiresActionsOnTransitionsOnly(t *testing.T) {
	action := &countingAction{}
	base := &BaseContext{
		UUID: "ctx-2",
		Conditions: Conditions{
			Timeout:  time.Hour,
			MaxSize:  2,
			Patterns: nil,
		},
		Actions: []Action{action},
	}
	state := NewState()
	responder := &recordingResponder{}
	now := time.Now()

	base.OnMessage(fakeEvent{ids: []string{"x"}}, state, responder, now)
	base.OnMessage(fakeEvent{ids: []string{"y"}}, state, responder, now)

	if state.Open {
		t.Fatal("expected context to close at max_size")
	}
	if action.opened != 1 || action.closed != 1 {
		t.Fatalf("expected exactly one open and one close fire, got opened=%d closed=%d", action.opened, action.closed)
	}

	// Reopen after close must be permitted and independent.
	base.OnMessage(fakeEvent{ids: []string{"x"}}, state, responder, now)
	base.OnMessage(fakeEvent{ids: []string{"y"}}, state, responder, now)
	if action.opened != 2 || action.closed != 2 {
		t.Fatalf("expected reopen to fire again, got opened=%d closed=%d", action.opened, action.closed)
	}
}

func TestBaseContextOnTimerClosesOnTimeout(t *testing.T) {
	action := &countingAction{}
	base := &BaseContext{
		UUID:       "ctx-3",
		Conditions: Conditions{Timeout: 100 * time.Millisecond},
		Actions:    []Action{action},
	}
	state := NewState()
	responder := &recordingResponder{}
	now := time.Now()

	base.OnMessage(fakeEvent{ids: []string{"x"}}, state, responder, now)
	base.OnTimer(60*time.Millisecond, state, responder)
	if !state.Open {
		t.Fatal("expected still open before timeout")
	}
	base.OnTimer(60*time.Millisecond, state, responder)
	if state.Open {
		t.Fatal("expected closed once elapsed passes timeout")
	}
}

func TestBaseContextStateResetIdempotence(t *testing.T) {
	base := &BaseContext{
		UUID:       "ctx-4",
		Conditions: Conditions{MaxSize: 1},
	}
	state := NewState()
	responder := &recordingResponder{}
	base.OnMessage(fakeEvent{ids: []string{"x"}}, state, responder, time.Now())

	fresh := NewState()
	if len(state.Messages) != 0 || state.Open != fresh.Open || state.Elapsed != fresh.Elapsed ||
		state.ElapsedSinceLast != fresh.ElapsedSinceLast {
		t.Fatalf("closed state %+v is not indistinguishable from a fresh state %+v", state, fresh)
	}
}

func TestActionPanicIsolation(t *testing.T) {
	var recovered bool
	SetActionPanicHandler(func(Action, any) { recovered = true })
	defer SetActionPanicHandler(func(Action, any) {})

	panicking := panicAction{}
	ok := &countingAction{}
	base := &BaseContext{
		UUID:       "ctx-5",
		Conditions: Conditions{FirstOpens: false},
		Actions:    []Action{panicking, ok},
	}
	state := NewState()
	responder := &recordingResponder{}

	base.OnMessage(fakeEvent{ids: []string{"x"}}, state, responder, time.Now())

	if !recovered {
		t.Fatal("expected panic to be recovered and reported")
	}
	if ok.opened != 1 {
		t.Fatal("expected action after the panicking one to still fire")
	}
}

type panicAction struct{}

func (panicAction) OnOpened(*State, *BaseContext, ResponseSender) { panic("boom") }
func (panicAction) OnClosed(*State, *BaseContext, ResponseSender) { panic("boom") }
