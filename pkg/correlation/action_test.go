package correlation

import (
	"testing"

	"github.com/ccollicutt/correl8/pkg/events"
	"github.com/ccollicutt/correl8/pkg/template"
)

func TestMessageActionFiresOnlyWhenGated(t *testing.T) {
	factory := template.DefaultFactory{}
	msgTmpl, err := factory.Compile("closed ctx=$(context_id) len=$(context_len)")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	action := &MessageAction{
		UUID:       "out",
		Message:    msgTmpl,
		When:       ExecCondition{OnOpened: false, OnClosed: true},
		InjectMode: InjectLog,
	}
	base := &BaseContext{UUID: "ctx-uuid"}
	state := NewState()
	state.Messages = []events.Event{fakeEvent{ids: []string{"A"}}}
	responder := &recordingResponder{}

	action.OnOpened(state, base, responder)
	if len(responder.alerts) != 0 {
		t.Fatalf("expected no-op on open when when.on_opened=false, got %d alerts", len(responder.alerts))
	}

	action.OnClosed(state, base, responder)
	if len(responder.alerts) != 1 {
		t.Fatalf("expected exactly one alert on close, got %d", len(responder.alerts))
	}

	got := responder.alerts[0]
	want := "closed ctx=ctx-uuid len=1"
	if got.Event.Message() != want {
		t.Fatalf("message = %q, want %q", got.Event.Message(), want)
	}
	if got.Event.UUID() != "out" {
		t.Fatalf("alert uuid = %q, want %q", got.Event.UUID(), "out")
	}
	if got.InjectMode != InjectLog {
		t.Fatalf("inject mode = %v, want %v", got.InjectMode, InjectLog)
	}
}

func TestMessageActionSetsValuesAndName(t *testing.T) {
	factory := template.DefaultFactory{}
	msgTmpl, _ := factory.Compile("m")
	valTmpl, _ := factory.Compile("v=$(context_id)")

	action := &MessageAction{
		UUID:       "out",
		Name:       "classified",
		HasName:    true,
		Message:    msgTmpl,
		Values:     map[string]template.Template{"k": valTmpl},
		When:       ExecCondition{OnOpened: true},
		InjectMode: InjectForward,
	}
	base := &BaseContext{UUID: "ctx-1"}
	state := NewState()
	responder := &recordingResponder{}

	action.OnOpened(state, base, responder)

	if len(responder.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(responder.alerts))
	}
	ev := responder.alerts[0].Event
	name, ok := ev.Name()
	if !ok || name != "classified" {
		t.Fatalf("name = %q, %v, want classified, true", name, ok)
	}
	v, ok := ev.Get("k")
	if !ok || v != "v=ctx-1" {
		t.Fatalf("values[k] = %q, %v, want v=ctx-1, true", v, ok)
	}
}

func TestInjectModeParsing(t *testing.T) {
	tests := []struct {
		in   string
		want InjectMode
	}{
		{"", InjectLog},
		{"log", InjectLog},
		{"forward", InjectForward},
		{"loopback", InjectLoopback},
	}
	for _, tt := range tests {
		got, err := ParseInjectMode(tt.in)
		if err != nil {
			t.Fatalf("ParseInjectMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseInjectMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseInjectMode("bogus"); err == nil {
		t.Fatal("expected error for unknown inject_mode")
	}
}
