// Package metrics publishes correl8's runtime counters over expvar. No
// metrics library (prometheus client, go-metrics, statsd) appears anywhere
// in the retrieved corpus, so this uses the standard library's own answer
// to the same problem rather than introduce a dependency nothing in the
// pack grounds.
package metrics

import "expvar"

// Counters are process-wide, matching expvar's own model: one process, one
// set of named counters, scraped by whatever polls the expvar HTTP handler.
// The run command serves that handler when --metrics-addr is set; the
// engine packages never serve it themselves.
var (
	AlertsEmitted   = expvar.NewInt("correl8_alerts_emitted_total")
	AlertsForwarded = expvar.NewInt("correl8_alerts_forwarded_total")
	WebhookFailures = expvar.NewInt("correl8_webhook_failures_total")
	ActionPanics    = expvar.NewInt("correl8_action_panics_total")
	EventsTagged    = expvar.NewInt("correl8_events_tagged_total")
	EventsUntagged  = expvar.NewInt("correl8_events_untagged_total")
)
