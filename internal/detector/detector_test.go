package detector

import "testing"

func TestDetectFromLinesISO8601(t *testing.T) {
	lines := []string{
		"2024-01-15T10:30:00 Application started",
		"2024-01-15T10:30:05 Processing request",
		"2024-01-15T10:30:10 Request completed",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("expected to detect a format")
	}
	best := result.BestMatch()
	if best.Format.Name != "ISO 8601" {
		t.Errorf("got %s, want ISO 8601", best.Format.Name)
	}
	if best.Confidence != 1.0 {
		t.Errorf("confidence = %.1f, want 1.0", best.Confidence)
	}
}

func TestDetectFromLinesBracketed(t *testing.T) {
	lines := []string{
		"[2024-01-15 10:30:00] INFO Application started",
		"[2024-01-15 10:30:05] INFO Processing request",
	}

	d := New()
	result := d.DetectFromLines(lines)
	best := result.BestMatch()
	if best == nil || best.Format.Name != "Bracketed datetime" {
		t.Fatalf("best match = %+v, want Bracketed datetime", best)
	}

	cfg := best.TimestampConfig()
	if cfg.Layout != "2006-01-02 15:04:05" {
		t.Fatalf("TimestampConfig().Layout = %q", cfg.Layout)
	}
}

func TestDetectFromLinesAmbiguousUSDate(t *testing.T) {
	lines := []string{"01/15/2024 10:30:00 event"}

	d := New()
	result := d.DetectFromLines(lines)
	if result.AmbiguityNote == "" {
		t.Fatal("expected an ambiguity note for MM/DD/YYYY format")
	}
}

func TestDetectFromLinesNoMatch(t *testing.T) {
	d := New()
	result := d.DetectFromLines([]string{"no timestamp at all here"})
	if result.HasMatch() {
		t.Fatal("expected no match")
	}
	if result.BestMatch() != nil {
		t.Fatal("BestMatch() should be nil when nothing matched")
	}
}
