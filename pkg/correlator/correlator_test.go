package correlator

import (
	"context"
	"testing"
	"time"

	"github.com/ccollicutt/correl8/pkg/correlation"
	"github.com/ccollicutt/correl8/pkg/events"
	"github.com/ccollicutt/correl8/pkg/template"
)

func TestCorrelatorPushAndAlert(t *testing.T) {
	f := &template.DefaultFactory{}
	tmpl, err := f.Compile("closed")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	base := &correlation.BaseContext{
		UUID: "ctx",
		Conditions: correlation.Conditions{
			Patterns: []string{"a"},
			MaxSize:  1,
		},
		Actions: []correlation.Action{
			&correlation.MessageAction{
				UUID:    "alert",
				Message: tmpl,
				When:    correlation.ExecCondition{OnClosed: true},
			},
		},
	}
	m := correlation.NewContextMap()
	m.Insert(correlation.NewLinearContext(base))

	c := New(m, 2*time.Millisecond)
	c.Start(context.Background())

	c.PushMessage(events.New("a", "first"))

	select {
	case alert := <-c.Alerts():
		if alert.Event.Message() != "closed" {
			t.Fatalf("message = %q, want %q", alert.Event.Message(), "closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for alert")
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop error = %v", err)
	}

	// Alerts channel must close once Stop has drained the reactor.
	select {
	case _, ok := <-c.Alerts():
		if ok {
			t.Fatal("unexpected alert after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("Alerts channel never closed after Stop")
	}
}

func TestCorrelatorLoopbackReenqueuesAlertEvent(t *testing.T) {
	f := &template.DefaultFactory{}
	loopTmpl, err := f.Compile("looped")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	finalTmpl, err := f.Compile("final")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	// ctx1 closes on "a" and emits a loopback alert tagged "loop-alert".
	ctx1 := &correlation.BaseContext{
		UUID: "ctx1",
		Conditions: correlation.Conditions{
			Patterns: []string{"a"},
			MaxSize:  1,
		},
		Actions: []correlation.Action{
			&correlation.MessageAction{
				UUID:       "loop-alert",
				Message:    loopTmpl,
				When:       correlation.ExecCondition{OnClosed: true},
				InjectMode: correlation.InjectLoopback,
			},
		},
	}
	// ctx2 only opens on the event the loopback re-enqueues.
	ctx2 := &correlation.BaseContext{
		UUID: "ctx2",
		Conditions: correlation.Conditions{
			Patterns: []string{"loop-alert"},
			MaxSize:  1,
		},
		Actions: []correlation.Action{
			&correlation.MessageAction{
				UUID:    "final-alert",
				Message: finalTmpl,
				When:    correlation.ExecCondition{OnClosed: true},
			},
		},
	}

	m := correlation.NewContextMap()
	m.Insert(correlation.NewLinearContext(ctx1))
	m.Insert(correlation.NewLinearContext(ctx2))

	c := New(m, 2*time.Millisecond)
	c.Start(context.Background())

	c.PushMessage(events.New("a", "first"))

	var got []correlation.Alert
	for len(got) < 2 {
		select {
		case alert := <-c.Alerts():
			got = append(got, alert)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for alerts, got %d of 2", len(got))
		}
	}

	if got[0].Event.UUID() != "loop-alert" {
		t.Fatalf("alert[0] uuid = %q, want %q", got[0].Event.UUID(), "loop-alert")
	}
	if got[1].Event.UUID() != "final-alert" {
		t.Fatalf("alert[1] uuid = %q, want %q (the second alert, caused by the loopback re-enqueue)", got[1].Event.UUID(), "final-alert")
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop error = %v", err)
	}
}

func TestCorrelatorTickEmitterExitUnwindsWithoutStop(t *testing.T) {
	base := &correlation.BaseContext{
		UUID:       "idle",
		Conditions: correlation.Conditions{MaxSize: 1},
	}
	m := correlation.NewContextMap()
	m.Insert(correlation.NewLinearContext(base))

	c := New(m, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()

	select {
	case _, ok := <-c.Alerts():
		if ok {
			t.Fatal("unexpected alert")
		}
	case <-time.After(time.Second):
		t.Fatal("canceling ctx never unwound the reactor")
	}
}
