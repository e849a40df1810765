package configdoc

import (
	"os"
	"time"
)

// Default values applied when a document omits them, mirroring negalog's
// pkg/config/defaults.go posture of one constants block plus a single
// environment override.
const (
	DefaultWebhookTimeout   = 10 * time.Second
	DefaultTimestampPattern = `^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`
	DefaultTimestampLayout  = "2006-01-02 15:04:05"
)

// EnvTimestampLayout, when set, overrides Document.TimestampFormat.Layout
// after parsing — useful for running the same document against logs from a
// different timezone/locale without editing the file.
const EnvTimestampLayout = "CORREL8_TIMESTAMP_LAYOUT"

// Default returns a Document with sensible defaults for everything but
// Contexts, which every document must supply at least one of.
func Default() *Document {
	return &Document{
		LogSources: []string{},
		TimestampFormat: TimestampConfig{
			Pattern: DefaultTimestampPattern,
			Layout:  DefaultTimestampLayout,
		},
		Contexts: []ContextConfig{},
	}
}

func (d *Document) applyEnvironmentOverrides() {
	if layout := os.Getenv(EnvTimestampLayout); layout != "" {
		d.TimestampFormat.Layout = layout
	}
}
