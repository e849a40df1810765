package template

import (
	"testing"

	"github.com/ccollicutt/correl8/pkg/events"
)

func TestDefaultFactoryCompileRejectsUnbalancedMacro(t *testing.T) {
	f := DefaultFactory{}
	if _, err := f.Compile("session $(context_id closed"); err == nil {
		t.Fatal("expected an error for an unbalanced macro")
	}
}

func TestDefaultFactoryCompileAcceptsLiterals(t *testing.T) {
	f := DefaultFactory{}
	tmpl, err := f.Compile("context $(context_id) closed after $(context_len) messages")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if tmpl == nil {
		t.Fatal("Compile() returned a nil template")
	}
}

func TestFormatWithContextSubstitutesMacros(t *testing.T) {
	f := DefaultFactory{}
	tmpl, err := f.Compile("ctx=$(context_id) len=$(context_len) last=$(last_message)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	messages := []events.Event{events.New("login", "user bob logged in"), events.New("read", "bob read a page")}
	got := tmpl.FormatWithContext(messages, "session-42")

	want := "ctx=session-42 len=2 last=bob read a page"
	if got != want {
		t.Errorf("FormatWithContext() = %q, want %q", got, want)
	}
}

func TestFormatWithContextEmptyMessagesLeavesLastMessageUnset(t *testing.T) {
	f := DefaultFactory{}
	tmpl, err := f.Compile("last=$(last_message)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	got := tmpl.FormatWithContext(nil, "session-1")
	if got != "last=$(last_message)" {
		t.Errorf("FormatWithContext() with no messages = %q, want the macro left unresolved", got)
	}
}

func TestFormatSubstitutesSingleMessage(t *testing.T) {
	f := DefaultFactory{}
	tmpl, err := f.Compile("saw: $(last_message)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	got := tmpl.Format(events.New("login", "user bob logged in"))
	if got != "saw: user bob logged in" {
		t.Errorf("Format() = %q", got)
	}
}

func TestFormatNilMessageLeavesMacroUnresolved(t *testing.T) {
	f := DefaultFactory{}
	tmpl, err := f.Compile("saw: $(last_message)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if got := tmpl.Format(nil); got != "saw: $(last_message)" {
		t.Errorf("Format(nil) = %q", got)
	}
}
