// Package correlator provides the engine's public façade (spec §4.J): the
// type a host embeds to push events in and receive alerts back, without
// touching the reactor, timer wheel, or context map directly.
package correlator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/correl8/pkg/correlation"
	"github.com/ccollicutt/correl8/pkg/events"
	"github.com/ccollicutt/correl8/pkg/reactor"
	"github.com/ccollicutt/correl8/pkg/timerwheel"
)

// Correlator owns a reactor and a timer wheel, joining their goroutines
// under one errgroup so a single Stop cleanly winds down both — the tick
// emitter's own Exit (sent when its context is canceled) and the caller's
// explicit Exit are the two signals the reactor's demultiplexer expects
// (spec §4.I, §5).
type Correlator struct {
	reactor *reactor.Reactor
	wheel   *timerwheel.Wheel

	cancel context.CancelFunc
	group  *errgroup.Group

	alerts chan correlation.Alert
}

// New builds a Correlator over contexts, ticking at tickInterval (or
// timerwheel.DefaultTick if non-positive).
func New(contexts *correlation.ContextMap, tickInterval time.Duration) *Correlator {
	return &Correlator{
		reactor: reactor.New(contexts, 64, 64),
		wheel:   timerwheel.New(tickInterval),
		alerts:  make(chan correlation.Alert, 64),
	}
}

// Start launches the reactor, the tick emitter, and the plumbing between
// them. It returns immediately; use PushMessage to feed events, Alerts to
// receive output, and Stop to shut down.
func (c *Correlator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	group, gctx := errgroup.WithContext(ctx)
	c.group = group

	group.Go(func() error {
		c.wheel.Run(gctx)
		// The tick emitter stopping is itself a shutdown signal: forward
		// its own Exit into the reactor so a caller who only cancels ctx
		// (without calling Stop) still unwinds the reactor eventually.
		c.reactor.In() <- reactor.ExitRequest{}
		return nil
	})

	group.Go(func() error {
		for {
			select {
			case tick, ok := <-c.wheel.Ticks():
				if !ok {
					return nil
				}
				c.reactor.In() <- reactor.TimerRequest{Tick: tick}
			case <-gctx.Done():
				// A second, independent Exit: together with the tick
				// emitter's own (above), a bare ctx cancellation — with no
				// explicit Stop call — still carries both Exit signals the
				// reactor's demultiplexer requires to fully unwind.
				c.reactor.In() <- reactor.ExitRequest{}
				return nil
			}
		}
	})

	group.Go(func() error {
		c.reactor.Run()
		return nil
	})

	group.Go(func() error {
		defer close(c.alerts)
		for resp := range c.reactor.Out() {
			if resp.Kind == reactor.ResponseAlert {
				// Loopback is the engine's own responsibility (spec §6): the
				// alert event is re-enqueued as a new Message so a second
				// context watching for it can open, in addition to being
				// published like any other alert.
				if resp.Alert.InjectMode == correlation.InjectLoopback {
					c.PushMessage(resp.Alert.Event)
				}
				c.alerts <- resp.Alert
			}
		}
		return nil
	})
}

// PushMessage enqueues e for dispatch by the reactor.
func (c *Correlator) PushMessage(e events.Event) {
	c.reactor.In() <- reactor.MessageRequest{Event: e}
}

// Alerts returns the channel alerts are published on; it closes once Stop
// has fully drained the reactor.
func (c *Correlator) Alerts() <-chan correlation.Alert {
	return c.alerts
}

// Stop sends the caller's half of the two-phase Exit, cancels the tick
// emitter (triggering its half), and waits for every goroutine to return.
func (c *Correlator) Stop() error {
	c.reactor.In() <- reactor.ExitRequest{}
	c.cancel()
	return c.group.Wait()
}
