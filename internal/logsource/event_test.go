package logsource

import (
	"context"
	"io"
	"regexp"
	"testing"
)

func TestTaggerFirstMatchWins(t *testing.T) {
	tagger := NewTagger([]TagPattern{
		{UUID: "login", Pattern: regexp.MustCompile(`login`)},
		{UUID: "any", Pattern: regexp.MustCompile(`.`)},
	})

	uuid, ok := tagger.Tag("user login succeeded")
	if !ok || uuid != "login" {
		t.Fatalf("Tag() = (%q, %v), want (login, true)", uuid, ok)
	}

	uuid, ok = tagger.Tag("something else")
	if !ok || uuid != "any" {
		t.Fatalf("Tag() = (%q, %v), want (any, true)", uuid, ok)
	}
}

func TestTaggerNoMatch(t *testing.T) {
	tagger := NewTagger([]TagPattern{{UUID: "login", Pattern: regexp.MustCompile(`login`)}})
	if _, ok := tagger.Tag("nothing relevant"); ok {
		t.Fatal("expected no match")
	}
}

func TestLogEventIDs(t *testing.T) {
	line := &ParsedLine{Raw: "user login succeeded", Source: "app.log"}
	ev := NewLogEvent("login", line)

	if ev.UUID() != "login" {
		t.Fatalf("UUID() = %q", ev.UUID())
	}
	if got := ev.IDs(); len(got) != 1 || got[0] != "login" {
		t.Fatalf("IDs() = %v, want [login]", got)
	}
	if ev.Message() != "user login succeeded" {
		t.Fatalf("Message() = %q", ev.Message())
	}
	if src, ok := ev.Get("source"); !ok || src != "app.log" {
		t.Fatalf("Get(source) = (%q, %v)", src, ok)
	}
	if _, hasName := ev.Name(); hasName {
		t.Fatal("LogEvent should never have a name")
	}
}

func TestPipelineSkipsUntaggedLines(t *testing.T) {
	source := &sliceSource{lines: []*ParsedLine{
		{Raw: "user login succeeded"},
		{Raw: "unrelated noise"},
		{Raw: "user logout succeeded"},
	}}
	tagger := NewTagger([]TagPattern{
		{UUID: "login", Pattern: regexp.MustCompile(`login`)},
		{UUID: "logout", Pattern: regexp.MustCompile(`logout`)},
	})
	pipeline := NewPipeline(source, tagger)

	var tags []string
	ctx := context.Background()
	for {
		ev, err := pipeline.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		tags = append(tags, ev.UUID())
	}

	if len(tags) != 2 || tags[0] != "login" || tags[1] != "logout" {
		t.Fatalf("tags = %v, want [login logout]", tags)
	}
}
