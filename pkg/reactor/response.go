package reactor

import "github.com/ccollicutt/correl8/pkg/correlation"

// ResponseKind tags the variant of a Response.
type ResponseKind int

const (
	// ResponseAlert carries an Alert synthesized by a fired action.
	ResponseAlert ResponseKind = iota
	// ResponseExit marks that the reactor has observed a shutdown signal.
	ResponseExit
)

// Response is the sum type of values the reactor publishes on its output
// channel: an Alert, or the Exit marker (spec §4.I).
type Response struct {
	Kind  ResponseKind
	Alert correlation.Alert
}

// channelResponder adapts a Response channel to correlation.ResponseSender
// so actions can emit alerts without importing this package.
type channelResponder struct {
	out chan<- Response
}

func (c channelResponder) SendAlert(a correlation.Alert) {
	c.out <- Response{Kind: ResponseAlert, Alert: a}
}
